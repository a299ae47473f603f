package service

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

const (
	// HashAlgorithm identifies the derivation used for stored credentials.
	HashAlgorithm = "pbkdf2-sha512"

	// minIterations is the brute-force resistance floor. The count is a
	// single system parameter so it can be raised over time without touching
	// the verification code path.
	minIterations = 500_000

	publicSaltLen = 16 // 128 bits
	derivedKeyLen = sha512.Size
)

// HasherConfig configures the password hashing service.
type HasherConfig struct {
	// Iterations is the PBKDF2 iteration count, fixed at construction.
	Iterations int
	// PrivateSalt is system-wide secret material held only by the service.
	// It is mixed into every derivation but never persisted with records,
	// so credential-store disclosure alone is not enough to mount an
	// offline attack.
	PrivateSalt []byte
}

// Hasher computes and verifies salted, iterated credential hashes.
// It is stateless after construction and safe for concurrent use.
type Hasher struct {
	iterations  int
	privateSalt []byte
}

// NewHasher constructs a Hasher, enforcing the iteration floor.
func NewHasher(cfg HasherConfig) (*Hasher, error) {
	if cfg.Iterations < minIterations {
		return nil, fmt.Errorf("hash iterations %d below minimum %d", cfg.Iterations, minIterations)
	}
	if len(cfg.PrivateSalt) == 0 {
		return nil, errors.New("private salt is required")
	}

	return &Hasher{
		iterations:  cfg.Iterations,
		privateSalt: append([]byte(nil), cfg.PrivateSalt...),
	}, nil
}

// Hash derives a hash of secret under a fresh random public salt. Two calls
// with the same secret produce different outputs; both verify.
func (h *Hasher) Hash(secret string) (domainauth.HashedSecret, error) {
	publicSalt := make([]byte, publicSaltLen)
	if _, err := io.ReadFull(rand.Reader, publicSalt); err != nil {
		return domainauth.HashedSecret{}, fmt.Errorf("generate public salt: %w", err)
	}

	return domainauth.HashedSecret{
		Hash:       h.derive(secret, publicSalt, h.iterations),
		PublicSalt: publicSalt,
		Algorithm:  HashAlgorithm,
		Iterations: h.iterations,
	}, nil
}

// Verify recomputes the hash using the record's own public salt and iteration
// count and compares in constant time. A mismatch is (false, nil); only a
// malformed record produces an error.
func (h *Hasher) Verify(secret string, record domainauth.StoredCredential) (bool, error) {
	switch {
	case len(record.Hash) == 0:
		return false, apperrors.MalformedRecord("hash")
	case len(record.PublicSalt) == 0:
		return false, apperrors.MalformedRecord("salt")
	case record.Iterations <= 0:
		return false, apperrors.MalformedRecord("iterations")
	case record.Algorithm != HashAlgorithm:
		return false, apperrors.MalformedRecord("algorithm")
	}

	computed := h.derive(secret, record.PublicSalt, record.Iterations)
	return subtle.ConstantTimeCompare(computed, record.Hash) == 1, nil
}

// derive runs PBKDF2-SHA512 over the secret with the private salt prepended
// to the per-record public salt.
func (h *Hasher) derive(secret string, publicSalt []byte, iterations int) []byte {
	salt := make([]byte, 0, len(h.privateSalt)+len(publicSalt))
	salt = append(salt, h.privateSalt...)
	salt = append(salt, publicSalt...)
	return pbkdf2.Key([]byte(secret), salt, iterations, derivedKeyLen, sha512.New)
}
