package rcreplay

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the variant of a [Policy].
type Kind uint8

const (
	// KindNone retains no history.
	// It is the zero value, so the zero Policy replays nothing.
	KindNone Kind = iota

	// KindLatest retains the most recent n values.
	KindLatest

	// KindUnbounded retains every published value.
	KindUnbounded
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLatest:
		return "latest"
	case KindUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Policy describes how much history a broadcast keeps
// for late joining subscribers.
//
// Use [None], [Latest], or [Unbounded] to construct a Policy.
// The zero value is equivalent to [None].
type Policy struct {
	kind  Kind
	limit int
}

// None returns a policy that never retains any published value.
func None() Policy {
	return Policy{kind: KindNone}
}

// Latest returns a policy that retains the n most recent values.
//
// Latest panics if n is not positive.
func Latest(n int) Policy {
	if n <= 0 {
		panic(fmt.Errorf("BUG: rcreplay.Latest requires a positive bound (got %d)", n))
	}
	return Policy{kind: KindLatest, limit: n}
}

// Unbounded returns a policy that retains every published value.
func Unbounded() Policy {
	return Policy{kind: KindUnbounded}
}

// Kind reports the variant of p.
func (p Policy) Kind() Kind {
	return p.kind
}

// Limit reports the bound of a [KindLatest] policy.
// It is 0 for [KindNone] and -1 for [KindUnbounded].
func (p Policy) Limit() int {
	switch p.kind {
	case KindLatest:
		return p.limit
	case KindUnbounded:
		return -1
	default:
		return 0
	}
}

func (p Policy) String() string {
	if p.kind == KindLatest {
		return "latest:" + strconv.Itoa(p.limit)
	}
	return p.kind.String()
}

// MarshalText implements [encoding.TextMarshaler].
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler],
// accepting the same forms as [ParsePolicy].
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy parses the textual form of a policy:
// "none", "unbounded", or "latest:N" with N a positive integer.
// "all" is accepted as an alias for "unbounded",
// and the empty string parses as "none".
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return None(), nil
	case "unbounded", "all":
		return Unbounded(), nil
	}

	rest, ok := strings.CutPrefix(s, "latest:")
	if !ok {
		return Policy{}, fmt.Errorf("unknown replay policy %q", s)
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid latest bound %q: %w", rest, err)
	}
	if n <= 0 {
		return Policy{}, fmt.Errorf("latest bound must be positive (got %d)", n)
	}
	return Latest(n), nil
}

// Prune applies p's trim rule to buf and returns the trimmed slice.
//
// [KindNone] always yields an empty slice,
// [KindLatest] keeps the newest n values in publish order,
// and [KindUnbounded] returns buf unchanged.
//
// The returned slice may share buf's backing array.
func Prune[T any](p Policy, buf []T) []T {
	switch p.kind {
	case KindLatest:
		if len(buf) <= p.limit {
			return buf
		}
		return buf[len(buf)-p.limit:]
	case KindUnbounded:
		return buf
	default:
		return buf[:0]
	}
}
