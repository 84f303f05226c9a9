package postgres

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestRequireObject(t *testing.T) {
	assert.NoError(t, requireObject(json.RawMessage(` {"name":"X"}`)))

	for _, data := range []string{``, `[]`, `"x"`, `{"broken"`} {
		assert.ErrorIs(t, requireObject(json.RawMessage(data)), domain.ErrValidation, "data %q", data)
	}
}

func TestStorageError(t *testing.T) {
	plain := storageError("get", "bikes", errors.New("connection refused"))
	assert.ErrorIs(t, plain, domain.ErrStorage)
	assert.Contains(t, plain.Error(), "connection refused")

	notNull := storageError("create", "bikes", &pq.Error{Code: "23502", Message: "null value"})
	assert.ErrorIs(t, notNull, domain.ErrStorage)
	assert.Contains(t, notNull.Error(), "required field is missing")

	dup := storageError("create", "users", &pq.Error{Code: "23505", Message: "duplicate key"})
	assert.ErrorIs(t, dup, domain.ErrDuplicateEmail)

	check := storageError("create", "bikes", &pq.Error{Code: "23514", Message: "violates check constraint"})
	assert.ErrorIs(t, check, domain.ErrValidation)
	assert.NotErrorIs(t, check, domain.ErrStorage)
}
