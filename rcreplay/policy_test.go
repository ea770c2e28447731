package rcreplay_test

import (
	"fmt"
	"testing"

	"github.com/gordian-engine/replaycast/rcreplay"
	"github.com/stretchr/testify/require"
)

func TestPrune(t *testing.T) {
	t.Parallel()

	t.Run("none always empties", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, rcreplay.Prune(rcreplay.None(), []int{1, 2, 3}))
		require.Empty(t, rcreplay.Prune(rcreplay.None(), []int(nil)))
	})

	t.Run("zero value is none", func(t *testing.T) {
		t.Parallel()

		var p rcreplay.Policy
		require.Equal(t, rcreplay.KindNone, p.Kind())
		require.Empty(t, rcreplay.Prune(p, []int{1}))
	})

	t.Run("latest keeps newest in order", func(t *testing.T) {
		t.Parallel()

		p := rcreplay.Latest(2)
		require.Equal(t, []int{1}, rcreplay.Prune(p, []int{1}))
		require.Equal(t, []int{1, 2}, rcreplay.Prune(p, []int{1, 2}))
		require.Equal(t, []int{3, 4}, rcreplay.Prune(p, []int{1, 2, 3, 4}))
	})

	t.Run("unbounded keeps everything", func(t *testing.T) {
		t.Parallel()

		in := []int{1, 2, 3, 4, 5}
		require.Equal(t, in, rcreplay.Prune(rcreplay.Unbounded(), in))
	})
}

func TestLatest_panicsOnNonPositive(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { _ = rcreplay.Latest(0) })
	require.Panics(t, func() { _ = rcreplay.Latest(-3) })
}

func TestPolicy_Limit(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, rcreplay.None().Limit())
	require.Equal(t, 7, rcreplay.Latest(7).Limit())
	require.Equal(t, -1, rcreplay.Unbounded().Limit())
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want rcreplay.Policy
	}{
		{in: "none", want: rcreplay.None()},
		{in: "", want: rcreplay.None()},
		{in: "Unbounded", want: rcreplay.Unbounded()},
		{in: "all", want: rcreplay.Unbounded()},
		{in: " latest:3 ", want: rcreplay.Latest(3)},
	} {
		got, err := rcreplay.ParsePolicy(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"latest:0", "latest:-1", "latest:x", "sometimes"} {
		_, err := rcreplay.ParsePolicy(in)
		require.Error(t, err, in)
	}
}

func TestPolicy_textRoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range []rcreplay.Policy{
		rcreplay.None(), rcreplay.Latest(12), rcreplay.Unbounded(),
	} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var got rcreplay.Policy
		require.NoError(t, got.UnmarshalText(text))
		require.Equal(t, p, got)
	}
}

func ExamplePrune() {
	p := rcreplay.Latest(3)
	fmt.Println(rcreplay.Prune(p, []int{10, 11, 12, 13}))
	// Output:
	// [11 12 13]
}
