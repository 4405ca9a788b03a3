package async

import "sync/atomic"

// Generation issues monotonically increasing tokens used to detect stale
// results from fire-and-forget work. The owner bumps the generation when the
// surface the work targets goes away (e.g. a panel closes); a completion
// handler applies its result only while the token it captured is still
// current.
type Generation struct {
	current atomic.Uint64
}

// Next invalidates all outstanding tokens and returns a fresh one.
func (g *Generation) Next() uint64 {
	return g.current.Add(1)
}

// Current returns the live token without invalidating anything.
func (g *Generation) Current() uint64 {
	return g.current.Load()
}

// Valid reports whether token is still the live generation.
func (g *Generation) Valid(token uint64) bool {
	return g.current.Load() == token
}
