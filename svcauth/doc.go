// Package svcauth implements service-to-service authentication: a token
// server that exchanges static client credentials for short-lived signed
// service tokens, and a client that caches its own bearer token in memory
// and refreshes it proactively before expiry.
//
// Service tokens are signed with a key distinct from user session tokens and
// carry a type marker, so neither kind can be replayed as the other.
package svcauth
