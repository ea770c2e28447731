// Package replaycast is an in-process multicast primitive.
//
// A [Broadcaster] turns a single producer of values
// into a stream that any number of subscribers consume independently.
// Each subscriber, represented by a [Cursor],
// observes every value published after it joined,
// preceded by whatever history the configured replay policy retains
// (see package [github.com/gordian-engine/replaycast/rcreplay]).
//
// There are two ways to start a broadcast.
// [New] pulls from an upstream [Producer] on a background goroutine.
// [NewSubject] returns a Broadcaster together with an [Injector],
// for producers that push values by hand.
//
// Publishing never blocks on subscribers:
// every subscriber has its own unbounded delivery queue.
// All state changes of a broadcast are serialized,
// so every subscriber registered before a publish
// observes that value at the same position relative to other publishes,
// and a new subscriber's replay never overlaps or misses a concurrent publish.
//
// The end of a broadcast carries no cause.
// A producer that fails and a producer that completes cleanly
// look the same to subscribers.
package replaycast
