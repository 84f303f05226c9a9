package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DocumentRepository stores every collection of one tenant as JSONB rows
// in the shared documents table.
type DocumentRepository struct {
	db     *sql.DB
	tenant string
}

func NewDocumentRepository(db *sql.DB, tenant string) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		tenant: tenant,
	}
}

const selectColumns = `id, data, created_at, updated_at`

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]*domain.Record, error) {
	query := `SELECT ` + selectColumns + `
              FROM documents WHERE tenant_id = $1 AND collection = $2
              ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, r.tenant, collection)
	if err != nil {
		return nil, storageError("list", collection, err)
	}
	return scanRecords(rows, collection)
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (*domain.Record, error) {
	query := `SELECT ` + selectColumns + `
              FROM documents WHERE tenant_id = $1 AND collection = $2 AND id = $3`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, r.tenant, collection, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get", collection, err)
	}
	return rec, nil
}

func (r *DocumentRepository) Create(ctx context.Context, collection string, data json.RawMessage) (*domain.Record, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}

	query := `INSERT INTO documents (tenant_id, collection, id, data, created_at, updated_at)
	VALUES ($1, $2, $3, $4::jsonb - 'id' - 'created_at' - 'updated_at', $5, $5)
    RETURNING ` + selectColumns

	now := time.Now().UTC()
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, r.tenant, collection, uuid.New().String(), string(data), now))
	if err != nil {
		return nil, storageError("create", collection, err)
	}
	return rec, nil
}

func (r *DocumentRepository) Update(ctx context.Context, collection, id string, patch json.RawMessage) (*domain.Record, error) {
	if err := requireObject(patch); err != nil {
		return nil, err
	}

	query := `UPDATE documents
		SET
			data = data || ($4::jsonb - 'id' - 'created_at' - 'updated_at'),
			updated_at = GREATEST(clock_timestamp(), updated_at)
		WHERE tenant_id = $1 AND collection = $2 AND id = $3
		RETURNING ` + selectColumns

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, r.tenant, collection, id, string(patch)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("update", collection, err)
	}
	return rec, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) (bool, error) {
	query := `DELETE FROM documents WHERE tenant_id = $1 AND collection = $2 AND id = $3`

	result, err := r.db.ExecContext(ctx, query, r.tenant, collection, id)
	if err != nil {
		return false, storageError("delete", collection, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storageError("delete", collection, err)
	}
	return rowsAffected > 0, nil
}

func (r *DocumentRepository) QueryByField(ctx context.Context, collection, field string, value any) ([]*domain.Record, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: query value for %q: %v", domain.ErrValidation, field, err)
	}

	query := `SELECT ` + selectColumns + `
              FROM documents
              WHERE tenant_id = $1 AND collection = $2 AND data -> $3::text = $4::jsonb
              ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, r.tenant, collection, field, string(encoded))
	if err != nil {
		return nil, storageError("query", collection, err)
	}
	return scanRecords(rows, collection)
}

// Purge removes every document owned by the tenant.
func (r *DocumentRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE tenant_id = $1`, r.tenant); err != nil {
		return storageError("purge", "*", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec  domain.Record
		data []byte
	)
	if err := row.Scan(&rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Data = json.RawMessage(data)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

func scanRecords(rows *sql.Rows, collection string) ([]*domain.Record, error) {
	defer rows.Close()

	records := []*domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageError("scan", collection, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("scan", collection, err)
	}
	return records, nil
}

func requireObject(data json.RawMessage) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("%w: document must be a JSON object", domain.ErrValidation)
	}
	return nil
}

func storageError(op, collection string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23502":
			return fmt.Errorf("%w: %s %s: required field is missing", domain.ErrStorage, op, collection)
		case "23505":
			// documents_user_email_idx is the only unique index besides the key
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicateEmail, op, collection)
		case "23514":
			return fmt.Errorf("%w: %s %s: %s", domain.ErrValidation, op, collection, pqErr.Message)
		}
		return fmt.Errorf("%w: %s %s: %s (%s)", domain.ErrStorage, op, collection, pqErr.Message, pqErr.Code)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrStorage, op, collection, err)
}
