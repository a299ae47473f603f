package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeStoreUnavailable, "store down")

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStoreUnavailable(err))
	assert.Equal(t, "store down: boom", err.Error())
}

func TestAppErrorThroughWrappingChain(t *testing.T) {
	err := fmt.Errorf("authenticate: %w", InvalidCredentials())

	assert.True(t, IsInvalidCredentials(err))
	assert.Equal(t, ErrCodeInvalidCredentials, CodeOf(err))
}

func TestInvalidCredentialsMessageIsGeneric(t *testing.T) {
	// The login failure message must not reveal whether the username exists.
	err := InvalidCredentials()
	assert.NotContains(t, err.Message, "username not found")
	assert.NotContains(t, err.Message, "user does not exist")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrCodeSessionExpired, CodeOf(SessionExpired()))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		wantCode ErrorCode
	}{
		{name: "no rows", input: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "deadline", input: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", input: context.Canceled, wantCode: ErrCodeCanceled},
		{
			name:     "connection failure",
			input:    &pgconn.PgError{Code: pgerrcode.ConnectionFailure},
			wantCode: ErrCodeStoreUnavailable,
		},
		{
			name:     "undefined table",
			input:    &pgconn.PgError{Code: pgerrcode.UndefinedTable},
			wantCode: ErrCodeMalformedRecord,
		},
		{
			name:     "other pg error",
			input:    &pgconn.PgError{Code: pgerrcode.DivisionByZero},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapDBError(tt.input)
			var appErr *AppError
			require.ErrorAs(t, mapped, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.ErrorIs(t, mapped, tt.input)
		})
	}
}

func TestMapDBErrorPassthrough(t *testing.T) {
	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
	assert.NoError(t, MapDBError(nil))
}
