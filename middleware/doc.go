// Package middleware provides the HTTP guard hosting services use to
// protect routes with engine-verified access tokens.
package middleware
