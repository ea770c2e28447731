package replaycast

import "errors"

// errControllerReleased is the cancellation cause given to the ingestion goroutine
// once nothing references its broadcast anymore.
var errControllerReleased = errors.New("broadcast released")
