// Package stores contains the Redis-backed token state: the access-token
// denylist, the refresh-token forward/reverse index, and the single-use
// token records for email verification and password reset.
//
// Redis is the single source of truth for everything here. No store caches
// values across calls, and every key carries a TTL so expiry needs no
// separate sweep.
package stores
