package ports

import (
	"context"
	"time"

	"github.com/campneus/cofre/internal/core/domain"
)

// AuthService authenticates vault operators and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ChangePassword replaces the caller's own password after verifying the
	// current one.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// AccessEvent marks one successful login by an account.
type AccessEvent struct {
	UserID string
	At     time.Time
}

// AccessRecorder persists access events off the request path. Implementations
// must not block the caller.
type AccessRecorder interface {
	RecordAccess(event AccessEvent)
}

// LoginThrottle limits repeated failed logins per account.
type LoginThrottle interface {
	// TooMany reports whether the account has exhausted its attempt budget.
	TooMany(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt inside the rolling window.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
