package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/google/uuid"
)

// reserved keys are owned by the store and stripped from incoming documents.
var reserved = []string{"id", "created_at", "updated_at"}

type document struct {
	fields    map[string]json.RawMessage
	createdAt time.Time
	updatedAt time.Time
}

type collection struct {
	docs  map[string]*document
	order []string
}

// Store keeps collections in process memory. It satisfies the same contract
// as the postgres document store and is used by tests and local runs.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]*collection),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) List(ctx context.Context, name string) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return []*domain.Record{}, nil
	}

	records := make([]*domain.Record, 0, len(col.order))
	for _, id := range col.order {
		rec, err := col.docs[id].record(id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, name, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	doc, ok := col.docs[id]
	if !ok {
		return nil, nil
	}
	return doc.record(id)
}

func (s *Store) Create(ctx context.Context, name string, data json.RawMessage) (*domain.Record, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(name)
	id := uuid.New().String()
	now := s.now().UTC()
	doc := &document{
		fields:    fields,
		createdAt: now,
		updatedAt: now,
	}
	col.docs[id] = doc
	col.order = append(col.order, id)

	return doc.record(id)
}

func (s *Store) Update(ctx context.Context, name, id string, patch json.RawMessage) (*domain.Record, error) {
	fields, err := decodeObject(patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	doc, ok := col.docs[id]
	if !ok {
		return nil, nil
	}

	merged := make(map[string]json.RawMessage, len(doc.fields)+len(fields))
	for k, v := range doc.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	now := s.now().UTC()
	if now.Before(doc.updatedAt) {
		now = doc.updatedAt
	}
	updated := &document{
		fields:    merged,
		createdAt: doc.createdAt,
		updatedAt: now,
	}
	col.docs[id] = updated

	return updated.record(id)
}

func (s *Store) Delete(ctx context.Context, name, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return false, nil
	}
	if _, ok := col.docs[id]; !ok {
		return false, nil
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *Store) QueryByField(ctx context.Context, name, field string, value any) ([]*domain.Record, error) {
	want, err := normalize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: query value for %q: %v", domain.ErrValidation, field, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return []*domain.Record{}, nil
	}

	records := []*domain.Record{}
	for _, id := range col.order {
		doc := col.docs[id]
		raw, ok := doc.fields[field]
		if !ok {
			continue
		}
		var got any
		if err := json.Unmarshal(raw, &got); err != nil {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			continue
		}
		rec, err := doc.record(id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Purge drops every collection.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = make(map[string]*collection)
	return nil
}

func (s *Store) collection(name string) *collection {
	col, ok := s.collections[name]
	if !ok {
		col = &collection{docs: make(map[string]*document)}
		s.collections[name] = col
	}
	return col
}

func (d *document) record(id string) (*domain.Record, error) {
	data, err := json.Marshal(d.fields)
	if err != nil {
		return nil, fmt.Errorf("%w: encode document %s: %w", domain.ErrStorage, id, err)
	}
	return &domain.Record{
		ID:        id,
		Data:      data,
		CreatedAt: d.createdAt,
		UpdatedAt: d.updatedAt,
	}, nil
}

func decodeObject(data json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: document must be a JSON object", domain.ErrValidation)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	for _, key := range reserved {
		delete(fields, key)
	}
	return fields, nil
}

// normalize brings a Go value into the shape json.Unmarshal produces so it
// can be compared with stored fields.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
