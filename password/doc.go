// Package password defines the one-way password hashing contract used by the
// engine and ships a bcrypt implementation as the default.
package password
