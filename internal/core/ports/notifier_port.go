package ports

import (
	"context"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
)

// Notifier hands user-facing messages (password reset mail and the like)
// to whatever delivers them.
type Notifier interface {
	PasswordResetRequested(ctx context.Context, tenantID string, user *domain.User) error
}
