package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the one-way password function consumed by the engine. Hash
// produces a self-describing digest; Matches compares a plaintext candidate
// against a stored digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, digest string) (bool, error)
}

// Bcrypt hashes passwords with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A cost of zero selects
// bcrypt.DefaultCost; out-of-range costs are rejected.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password: bcrypt cost out of range")
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns the bcrypt digest of plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Matches reports whether plaintext corresponds to digest. A mismatch is not
// an error; errors indicate a malformed digest.
func (b *Bcrypt) Matches(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
