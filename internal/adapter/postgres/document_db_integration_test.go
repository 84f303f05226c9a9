package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL and migrates it. Tests that use
// it are skipped when the variable is unset or in short mode.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.PingContext(context.Background()))
	require.NoError(t, Migrate(db, "migrations"))
	return db
}

// newTenantRepository scopes a repository to a fresh tenant and purges it
// when the test ends.
func newTenantRepository(t *testing.T, db *sql.DB) *DocumentRepository {
	t.Helper()
	repo := NewDocumentRepository(db, "test-"+uuid.NewString())
	t.Cleanup(func() {
		assert.NoError(t, repo.Purge(context.Background()))
	})
	return repo
}

func TestDocumentRepository_Contract(t *testing.T) {
	db := openTestDB(t)

	testutil.RunRecordStoreContract(t, func(t *testing.T) ports.RecordStore {
		return newTenantRepository(t, db)
	})
}

func TestDocumentRepository_TenantsAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a := newTenantRepository(t, db)
	b := newTenantRepository(t, db)

	bikeA, err := a.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"CBR150"}`))
	require.NoError(t, err)
	bikeB, err := b.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"R15"}`))
	require.NoError(t, err)

	rec, err := b.Get(ctx, domain.CollectionBikes, bikeA.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)

	deleted, err := b.Delete(ctx, domain.CollectionBikes, bikeA.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, a.Purge(ctx))

	listA, err := a.List(ctx, domain.CollectionBikes)
	require.NoError(t, err)
	assert.Empty(t, listA)

	rec, err = b.Get(ctx, domain.CollectionBikes, bikeB.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.JSONEq(t, `{"name":"R15"}`, string(rec.Data))
}

func TestDocumentRepository_UniqueEmailPerTenant(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a := newTenantRepository(t, db)
	b := newTenantRepository(t, db)

	user := json.RawMessage(`{"name":"Rahim","email":"rahim@example.com"}`)

	_, err := a.Create(ctx, domain.CollectionUsers, user)
	require.NoError(t, err)

	_, err = a.Create(ctx, domain.CollectionUsers, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = b.Create(ctx, domain.CollectionUsers, user)
	assert.NoError(t, err)

	// the unique index only covers users
	_, err = a.Create(ctx, domain.CollectionResources, user)
	assert.NoError(t, err)
}

func TestDocumentRepository_QueryByNestedValue(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := newTenantRepository(t, db)

	_, err := repo.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"A","specs":{"engine":"150cc"}}`))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.CollectionBikes, json.RawMessage(`{"name":"B","specs":{"engine":"125cc"}}`))
	require.NoError(t, err)

	found, err := repo.QueryByField(ctx, domain.CollectionBikes, "specs", map[string]string{"engine": "150cc"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.JSONEq(t, `{"name":"A","specs":{"engine":"150cc"}}`, string(found[0].Data))
}
