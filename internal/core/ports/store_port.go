package ports

import (
	"context"
	"encoding/json"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
)

// RecordStore is a keyed document store split into named collections.
// Absent records are reported as nil / false, never as errors.
type RecordStore interface {
	List(ctx context.Context, collection string) ([]*domain.Record, error)
	Get(ctx context.Context, collection, id string) (*domain.Record, error)
	Create(ctx context.Context, collection string, data json.RawMessage) (*domain.Record, error)
	Update(ctx context.Context, collection, id string, patch json.RawMessage) (*domain.Record, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
	QueryByField(ctx context.Context, collection, field string, value any) ([]*domain.Record, error)
	Purge(ctx context.Context) error
}
