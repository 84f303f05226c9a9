package memory

import (
	"context"
	"sync"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
)

type PasswordResetEvent struct {
	TenantID string
	UserID   string
	Email    string
}

// Notifier records password reset requests and logs them. It stands in for
// the message broker when none is configured.
type Notifier struct {
	mu     sync.Mutex
	events []PasswordResetEvent
	logger ports.LoggerPort
}

func NewNotifier(logger ports.LoggerPort) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) PasswordResetRequested(ctx context.Context, tenantID string, user *domain.User) error {
	n.mu.Lock()
	n.events = append(n.events, PasswordResetEvent{
		TenantID: tenantID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	n.mu.Unlock()

	n.logger.Info("Password reset requested", map[string]interface{}{
		"tenant":  tenantID,
		"user_id": user.ID,
	})
	return nil
}

func (n *Notifier) Events() []PasswordResetEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]PasswordResetEvent, len(n.events))
	copy(out, n.events)
	return out
}
