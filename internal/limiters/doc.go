// Package limiters provides the Redis-backed login failure counter.
//
// Fixed-window semantics: INCR plus a conditional EXPIRE on the first hit,
// so the window starts at the first failure and the counter disappears on
// its own when the window elapses.
package limiters
