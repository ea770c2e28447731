// Package rcreplay contains the replay policies for a broadcast.
//
// A [Policy] decides how much history a broadcast retains
// for subscribers that join after values have already been published:
// nothing ([None]), the most recent n values ([Latest]),
// or everything ([Unbounded]).
//
// [Prune] is the pure form of a policy, operating on a slice.
// [Buffer] applies the same rule incrementally,
// which is what the broadcast registry uses on every publish.
package rcreplay
