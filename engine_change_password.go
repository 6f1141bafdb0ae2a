package authcore

import (
	"context"
	"log/slog"
)

// ChangePassword replaces the password of an authenticated user after
// verifying the current one. A new password equal to the current one is
// rejected as a no-op change.
func (e *Engine) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := e.hasher.Matches(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPassword
	}

	same, err := e.hasher.Matches(newPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if same {
		return ErrSamePassword
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := e.users.Save(ctx, user); err != nil {
		return err
	}

	e.logger.Info("password changed", slog.String("user_id", userID))
	return nil
}
