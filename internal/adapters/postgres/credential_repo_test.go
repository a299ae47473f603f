package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/service"
	"github.com/company/orderhandler-ui/internal/testutil"
)

func seedCredential(t *testing.T, db *sql.DB, username string, hash, salt []byte, algorithm string, iterations int) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO tbl_user (username, password, salt, algorithm, iterations) VALUES ($1, $2, $3, $4, $5)`,
		username, hash, salt, algorithm, iterations)
	require.NoError(t, err)
}

func TestCredentialRepo_Integration_FindCredentialRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	hasher, err := service.NewHasher(service.HasherConfig{
		Iterations:  500_000,
		PrivateSalt: []byte("integration-private-salt"),
	})
	require.NoError(t, err)
	hashed, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)

	seedCredential(t, db, "mallory", hashed.Hash, hashed.PublicSalt, hashed.Algorithm, hashed.Iterations)

	cred, err := repo.FindCredentialRecord(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, "mallory", cred.Username)
	assert.Equal(t, hashed.Hash, cred.Hash)
	assert.Equal(t, hashed.PublicSalt, cred.PublicSalt)
	assert.Equal(t, hashed.Algorithm, cred.Algorithm)
	assert.Equal(t, hashed.Iterations, cred.Iterations)

	// The record round-trips through verification.
	ok, err := hasher.Verify("correct horse battery staple", cred)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCredentialRepo_Integration_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCredentialRepo(db)

	_, err := repo.FindCredentialRecord(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "expected not_found, got %v", err)
}

func TestCredentialRepo_Integration_MalformedRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	cases := []struct {
		name       string
		username   string
		hash       []byte
		salt       []byte
		algorithm  string
		iterations int
	}{
		{"empty hash", "u1", []byte{}, []byte("salt"), "pbkdf2-sha512", 500_000},
		{"empty salt", "u2", []byte("hash"), []byte{}, "pbkdf2-sha512", 500_000},
		{"empty algorithm", "u3", []byte("hash"), []byte("salt"), "", 500_000},
		{"zero iterations", "u4", []byte("hash"), []byte("salt"), "pbkdf2-sha512", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seedCredential(t, db, tc.username, tc.hash, tc.salt, tc.algorithm, tc.iterations)
			_, err := repo.FindCredentialRecord(ctx, tc.username)
			require.Error(t, err)
			assert.True(t, apperrors.IsMalformedRecord(err), "expected malformed_record, got %v", err)
		})
	}
}

func TestCredentialRepo_Integration_StoreUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewCredentialRepo(db)
	require.NoError(t, db.Close())

	_, err := repo.FindCredentialRecord(context.Background(), "anyone")
	require.Error(t, err)
}
