// Package authcore is an embeddable token and session lifecycle engine for
// cooperating network services.
//
// The engine composes a stateless JWT codec, a Redis-backed refresh-token
// store, an access-token denylist, a login-attempt limiter, and single-use
// token stores for email verification and password reset into the familiar
// authentication use cases: login, refresh, logout, register, verify-email,
// forgot/reset/change password. Redis is the single source of truth for all
// expiring state; the only process-local cache in the module is the service
// credential client in package svcauth.
//
// Principal storage, outbound email, and HTTP routing stay outside the
// engine behind the UserProvider, Mailer, and middleware seams.
package authcore
