package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(HasherConfig{
		Iterations:  500_000,
		PrivateSalt: []byte("test-private-salt"),
	})
	require.NoError(t, err)
	return h
}

func recordFor(username string, hashed domainauth.HashedSecret) domainauth.StoredCredential {
	return domainauth.StoredCredential{
		Username:   username,
		Hash:       hashed.Hash,
		PublicSalt: hashed.PublicSalt,
		Algorithm:  hashed.Algorithm,
		Iterations: hashed.Iterations,
	}
}

func TestNewHasherEnforcesIterationFloor(t *testing.T) {
	_, err := NewHasher(HasherConfig{Iterations: 10_000, PrivateSalt: []byte("x")})
	require.Error(t, err)

	_, err = NewHasher(HasherConfig{Iterations: 500_000})
	require.Error(t, err, "private salt is required")
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := newTestHasher(t)

	hashed, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.Len(t, hashed.PublicSalt, 16)
	assert.Equal(t, HashAlgorithm, hashed.Algorithm)

	rec := recordFor("mjamali", hashed)

	ok, err := h.Verify("correct horse battery staple", rec)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong secret", rec)
	require.NoError(t, err)
	assert.False(t, ok, "mismatch must be a clean false, not an error")
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("same secret")
	require.NoError(t, err)
	second, err := h.Hash("same secret")
	require.NoError(t, err)

	// Fresh public salt per call: outputs differ, both verify.
	assert.NotEqual(t, first.PublicSalt, second.PublicSalt)
	assert.NotEqual(t, first.Hash, second.Hash)

	ok, err := h.Verify("same secret", recordFor("u", first))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.Verify("same secret", recordFor("u", second))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyDependsOnPrivateSalt(t *testing.T) {
	h := newTestHasher(t)
	hashed, err := h.Hash("secret")
	require.NoError(t, err)

	other, err := NewHasher(HasherConfig{
		Iterations:  500_000,
		PrivateSalt: []byte("different-private-salt"),
	})
	require.NoError(t, err)

	ok, err := other.Verify("secret", recordFor("u", hashed))
	require.NoError(t, err)
	assert.False(t, ok, "a record is not verifiable without the system private salt")
}

func TestVerifyMalformedRecords(t *testing.T) {
	h := newTestHasher(t)
	hashed, err := h.Hash("secret")
	require.NoError(t, err)
	good := recordFor("u", hashed)

	tests := []struct {
		name   string
		mutate func(*domainauth.StoredCredential)
	}{
		{name: "missing hash", mutate: func(r *domainauth.StoredCredential) { r.Hash = nil }},
		{name: "missing salt", mutate: func(r *domainauth.StoredCredential) { r.PublicSalt = nil }},
		{name: "zero iterations", mutate: func(r *domainauth.StoredCredential) { r.Iterations = 0 }},
		{name: "unknown algorithm", mutate: func(r *domainauth.StoredCredential) { r.Algorithm = "md5" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := good
			tt.mutate(&rec)
			ok, verr := h.Verify("secret", rec)
			assert.False(t, ok)
			assert.True(t, apperrors.IsMalformedRecord(verr))
		})
	}
}
