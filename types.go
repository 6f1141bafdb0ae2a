package authcore

import (
	"context"
	"time"
)

// UserStatus is the closed set of account states. The engine switches over
// it exhaustively; adding a state without updating statusError will not
// compile quietly past review.
type UserStatus uint8

const (
	// StatusActive allows all authentication operations.
	StatusActive UserStatus = iota
	// StatusPendingVerification blocks login until the email is verified.
	StatusPendingVerification
	// StatusBlocked rejects login and password reset dispatch.
	StatusBlocked
	// StatusInactive rejects login for deactivated accounts.
	StatusInactive
)

// String returns the canonical wire name of the status.
func (s UserStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPendingVerification:
		return "pending_verification"
	case StatusBlocked:
		return "blocked"
	case StatusInactive:
		return "inactive"
	}
	return "unknown"
}

// UserRecord is the credential view of a principal as consumed and mutated
// by the engine. Persistence lives behind UserProvider.
type UserRecord struct {
	ID              string
	Email           string
	PasswordHash    string
	Role            string
	Status          UserStatus
	EmailVerified   bool
	EmailVerifiedAt time.Time
	LastLoginAt     time.Time
	LastLoginIP     string
	LoginCount      int
	CreatedAt       time.Time
}

// UserProvider is the principal storage consumed by the engine. Lookups
// return ErrUserNotFound when no record matches.
type UserProvider interface {
	FindByID(ctx context.Context, id string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *UserRecord) error
}

// BasicProfile carries the optional public profile fields attached to login
// and refresh responses.
type BasicProfile struct {
	FullName  string
	AvatarURL string
}

// ProfileProvider is an optional lookup for display fields. Failures degrade
// gracefully: the engine logs and proceeds without the profile.
type ProfileProvider interface {
	BasicInfo(ctx context.Context, userID string) (*BasicProfile, error)
}

// Mailer dispatches verification and reset tokens to users. Delivery is
// best-effort from the engine's point of view; the token state in Redis is
// authoritative either way.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, fullName, token string) error
	SendPasswordResetEmail(ctx context.Context, email, fullName, token string) error
}

// LoginResult is returned by Login and Refresh.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64 // access token lifetime in seconds

	UserID    string
	Email     string
	Role      string
	FullName  string
	AvatarURL string
}

// RegisterRequest carries the inputs for Register.
type RegisterRequest struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

// RegisterResult summarizes a freshly created principal.
type RegisterResult struct {
	UserID    string
	Email     string
	Role      string
	Status    string
	Message   string
	CreatedAt time.Time
}
