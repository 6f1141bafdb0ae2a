// Package jwt signs and verifies the compact session tokens issued to
// authenticated users. It is a stateless codec: denylist checks and any other
// store-backed validation are layered on by the engine, never here.
package jwt
