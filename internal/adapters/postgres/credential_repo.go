// Package postgres adapts the external credential store to the
// ports.CredentialRealm interface. The credential table is owned by another
// system; this package only reads it.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

const findCredentialSQL = `
	SELECT password, salt, algorithm, iterations
	FROM tbl_user
	WHERE username = $1`

// CredentialRepo reads credential records from Postgres.
type CredentialRepo struct {
	DB *sql.DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db}
}

// FindCredentialRecord fetches the stored credential for username. A missing
// user maps to NotFound, connectivity failures to StoreUnavailable, and a
// record missing its hashing parameters to MalformedRecord.
func (r *CredentialRepo) FindCredentialRecord(ctx context.Context, username string) (domainauth.StoredCredential, error) {
	cred := domainauth.StoredCredential{Username: username}

	err := withPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, findCredentialSQL, username).
			Scan(&cred.Hash, &cred.PublicSalt, &cred.Algorithm, &cred.Iterations)
	})
	if err != nil {
		return domainauth.StoredCredential{}, apperrors.MapDBError(err)
	}

	if len(cred.Hash) == 0 {
		return domainauth.StoredCredential{}, apperrors.MalformedRecord("password")
	}
	if len(cred.PublicSalt) == 0 {
		return domainauth.StoredCredential{}, apperrors.MalformedRecord("salt")
	}
	if cred.Algorithm == "" {
		return domainauth.StoredCredential{}, apperrors.MalformedRecord("algorithm")
	}
	if cred.Iterations <= 0 {
		return domainauth.StoredCredential{}, apperrors.MalformedRecord("iterations")
	}

	return cred, nil
}
