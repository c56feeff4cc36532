package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain passthrough", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain", fmt.Errorf("load: %w", NewNotFound("lease", nil)), CodeNotFound, http.StatusNotFound},
		{"no rows", fmt.Errorf("get user: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, CodeConflict, http.StatusConflict},
		{"deadline", context.DeadlineExceeded, CodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{"no database", fmt.Errorf("find user: %w", ErrStoreNotConfigured), CodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{"fiber bad request", fiber.NewError(http.StatusBadRequest, "bad body"), CodeValidation, http.StatusBadRequest},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"unexpected", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("password=secret")
	got := ToDomainError(cause)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(NewNotFound("user", nil)))
	assert.False(t, IsNotFound(NewForbidden("x")))

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(NewConflict("dup", nil)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
