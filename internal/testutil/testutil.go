package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// RunRecordStoreContract runs the behaviour every ports.RecordStore must
// share against stores built by newStore. Each subtest gets a fresh store.
func RunRecordStoreContract(t *testing.T, newStore func(t *testing.T) ports.RecordStore) {
	t.Run("CreateGetRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		data := json.RawMessage(`{"name":"CBR150","brand":"Honda","year":2023,"price":500000,"specs":{"engine":"150cc"}}`)
		created, err := s.Create(ctx, domain.CollectionBikes, data)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
		assert.JSONEq(t, string(data), string(created.Data))

		got, err := s.Get(ctx, domain.CollectionBikes, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
		assert.JSONEq(t, string(data), string(got.Data))
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("CreateIgnoresReservedKeys", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(context.Background(), domain.CollectionBikes,
			json.RawMessage(`{"id":"forged","created_at":"2001-01-01T00:00:00Z","updated_at":"2001-01-01T00:00:00Z","name":"X"}`))
		require.NoError(t, err)

		assert.NotEqual(t, "forged", created.ID)
		assert.NotEqual(t, 2001, created.CreatedAt.Year())
		assert.JSONEq(t, `{"name":"X"}`, string(created.Data))
	})

	t.Run("CreateRejectsNonObject", func(t *testing.T) {
		s := newStore(t)

		for _, data := range []string{`[]`, `"bike"`, `42`, ``, `{"broken"`} {
			_, err := s.Create(context.Background(), domain.CollectionBikes, json.RawMessage(data))
			assert.ErrorIs(t, err, domain.ErrValidation, "data %q", data)
		}
	})

	t.Run("AbsentRecords", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		rec, err := s.Get(ctx, domain.CollectionBikes, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, rec)

		rec, err = s.Update(ctx, domain.CollectionBikes, "does-not-exist", json.RawMessage(`{"name":"X"}`))
		require.NoError(t, err)
		assert.Nil(t, rec)

		deleted, err := s.Delete(ctx, domain.CollectionBikes, "does-not-exist")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("ListEmptyAndOrdered", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		records, err := s.List(ctx, domain.CollectionBikes)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)

		var ids []string
		for i := 0; i < 3; i++ {
			rec, err := s.Create(ctx, domain.CollectionBikes, json.RawMessage(fmt.Sprintf(`{"name":"bike-%d"}`, i)))
			require.NoError(t, err)
			ids = append(ids, rec.ID)
		}

		records, err = s.List(ctx, domain.CollectionBikes)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for i, rec := range records {
			assert.Equal(t, ids[i], rec.ID)
		}
	})

	t.Run("UpdateMergesAndPreservesCreatedAt", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"CBR150","brand":"Honda","year":2023}`))
		require.NoError(t, err)

		updated, err := s.Update(ctx, domain.CollectionBikes, created.ID,
			json.RawMessage(`{"year":2024,"id":"forged","created_at":"1999-01-01T00:00:00Z"}`))
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
		assert.JSONEq(t, `{"name":"CBR150","brand":"Honda","year":2024}`, string(updated.Data))

		got, err := s.Get(ctx, domain.CollectionBikes, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.JSONEq(t, string(updated.Data), string(got.Data))
		assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))

		_, err = s.Update(ctx, domain.CollectionBikes, created.ID, json.RawMessage(`[1]`))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"X"}`))
		require.NoError(t, err)

		deleted, err := s.Delete(ctx, domain.CollectionBikes, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		rec, err := s.Get(ctx, domain.CollectionBikes, created.ID)
		require.NoError(t, err)
		assert.Nil(t, rec)

		deleted, err = s.Delete(ctx, domain.CollectionBikes, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		records, err := s.List(ctx, domain.CollectionBikes)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("QueryByField", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for _, doc := range []string{
			`{"bike_id":"b1","rating":4.5}`,
			`{"bike_id":"b2","rating":3}`,
			`{"bike_id":"b1","rating":3}`,
			`{"title":"no bike"}`,
		} {
			_, err := s.Create(ctx, domain.CollectionReviews, json.RawMessage(doc))
			require.NoError(t, err)
		}

		byBike, err := s.QueryByField(ctx, domain.CollectionReviews, "bike_id", "b1")
		require.NoError(t, err)
		assert.Len(t, byBike, 2)

		byRating, err := s.QueryByField(ctx, domain.CollectionReviews, "rating", 3)
		require.NoError(t, err)
		assert.Len(t, byRating, 2)

		none, err := s.QueryByField(ctx, domain.CollectionReviews, "bike_id", "b9")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		other, err := s.QueryByField(ctx, domain.CollectionBikes, "bike_id", "b1")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("CollectionsAreIndependent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"X"}`))
		require.NoError(t, err)

		rec, err := s.Get(ctx, domain.CollectionReviews, created.ID)
		require.NoError(t, err)
		assert.Nil(t, rec)

		deleted, err := s.Delete(ctx, domain.CollectionReviews, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("PurgeEmptiesEveryCollection", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		bike, err := s.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"X"}`))
		require.NoError(t, err)
		_, err = s.Create(ctx, domain.CollectionBrands, json.RawMessage(`{"name":"Honda"}`))
		require.NoError(t, err)

		require.NoError(t, s.Purge(ctx))

		rec, err := s.Get(ctx, domain.CollectionBikes, bike.ID)
		require.NoError(t, err)
		assert.Nil(t, rec)

		brands, err := s.List(ctx, domain.CollectionBrands)
		require.NoError(t, err)
		assert.Empty(t, brands)

		_, err = s.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"after"}`))
		require.NoError(t, err)
	})
}
