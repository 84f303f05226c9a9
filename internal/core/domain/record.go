package domain

import (
	"encoding/json"
	"time"
)

// Collection names shared by every store backend.
const (
	CollectionUsers     = "users"
	CollectionBikes     = "bikes"
	CollectionReviews   = "reviews"
	CollectionBrands    = "brands"
	CollectionTypes     = "types"
	CollectionResources = "resources"
)

// Meta holds the fields assigned by the store.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record is one stored document. Data is always a JSON object and never
// carries the id or the timestamps.
type Record struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Record) Meta() Meta {
	return Meta{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Decode unmarshals the document into v and then overlays the store fields.
func (r *Record) Decode(v any) error {
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, v); err != nil {
			return err
		}
	}
	meta, err := json.Marshal(r.Meta())
	if err != nil {
		return err
	}
	return json.Unmarshal(meta, v)
}
