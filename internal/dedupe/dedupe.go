package dedupe

// Package dedupe provides the shared singleflight group used to coalesce
// duplicate session operations. End-turn requests are keyed by session UUID
// so a double-click or a collision with the timeout scanner runs the
// advancement once; duplicate callers receive the result of the run in
// flight instead of racing it.

import "golang.org/x/sync/singleflight"

// SessionGroup coalesces duplicate session operations keyed by session UUID.
var SessionGroup singleflight.Group
