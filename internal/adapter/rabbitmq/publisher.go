package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const passwordResetRoutingKey = "user.password_reset"

// PasswordResetMessage is the payload consumed by the mail worker.
type PasswordResetMessage struct {
	TenantID    string    `json:"tenant_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	RequestedAt time.Time `json:"requested_at"`
}

// Publisher sends user notifications to a topic exchange.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   ports.LoggerPort
}

func NewPublisher(url, exchange string, logger ports.LoggerPort) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("Connected to RabbitMQ", map[string]interface{}{
		"exchange": exchange,
	})

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *Publisher) PasswordResetRequested(ctx context.Context, tenantID string, user *domain.User) error {
	body, err := json.Marshal(PasswordResetMessage{
		TenantID:    tenantID,
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode password reset message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, passwordResetRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.logger.Error("Failed to publish password reset", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return fmt.Errorf("publish password reset: %w", err)
	}

	p.logger.Debug("Password reset published", map[string]interface{}{
		"user_id": user.ID,
		"tenant":  tenantID,
	})
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
