package rctest

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"
)

// RandomIntsForTest returns n pseudorandom ints,
// derived from a seed based on the test name,
// so a failing sequence is reproducible.
func RandomIntsForTest(t testing.TB, n int) []int {
	// Sha256 happens to be the right size for the chacha8 seed,
	// and we are not limited by the length of any particular test name.
	seed := sha256.Sum256([]byte(t.Name()))
	r := rand.New(rand.NewChaCha8(seed))

	out := make([]int, n)
	for i := range out {
		out[i] = r.Int()
	}
	return out
}
