package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
)

// collection is a typed view over one RecordStore collection.
type collection[T any] struct {
	store ports.RecordStore
	name  string
}

func newCollection[T any](store ports.RecordStore, name string) collection[T] {
	return collection[T]{store: store, name: name}
}

func (c collection[T]) list(ctx context.Context) ([]*T, error) {
	records, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(records)
}

// get returns nil when the record does not exist.
func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	rec, err := c.store.Get(ctx, c.name, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return c.decode(rec)
}

func (c collection[T]) create(ctx context.Context, v any) (*T, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	rec, err := c.store.Create(ctx, c.name, data)
	if err != nil {
		return nil, err
	}
	return c.decode(rec)
}

// update returns nil when the record does not exist.
func (c collection[T]) update(ctx context.Context, id string, patch any) (*T, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	rec, err := c.store.Update(ctx, c.name, id, data)
	if err != nil || rec == nil {
		return nil, err
	}
	return c.decode(rec)
}

func (c collection[T]) delete(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, c.name, id)
}

func (c collection[T]) where(ctx context.Context, field string, value any) ([]*T, error) {
	records, err := c.store.QueryByField(ctx, c.name, field, value)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(records)
}

func (c collection[T]) decode(rec *domain.Record) (*T, error) {
	v := new(T)
	if err := rec.Decode(v); err != nil {
		return nil, fmt.Errorf("%w: decode %s/%s: %w", domain.ErrStorage, c.name, rec.ID, err)
	}
	return v, nil
}

func (c collection[T]) decodeAll(records []*domain.Record) ([]*T, error) {
	out := make([]*T, 0, len(records))
	for _, rec := range records {
		v, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
