package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHasher = Hasher{Time: 1, MemoryKB: 8 * 1024, Threads: 1, KeyLength: 32, SaltLength: 16}

func TestHasher_RoundTrip(t *testing.T) {
	encoded, err := testHasher.Hash("correct horse")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$")

	assert.True(t, testHasher.Verify("correct horse", encoded))
	assert.False(t, testHasher.Verify("wrong horse", encoded))

	again, err := testHasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salt must differ per hash")
}

func TestHasher_RejectsMalformed(t *testing.T) {
	for _, encoded := range []string{"", "nodollar", "!!$AAAA", "AAAA$!!", "AAAA$"} {
		assert.False(t, testHasher.Verify("pw", encoded), encoded)
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123", time.Hour)
	accountID := uuid.New()

	token, expires, err := issuer.Issue(Identity{Subject: accountID.String(), Email: "a@example.com", Role: RoleUser})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, id.AccountID)
	assert.Equal(t, RoleUser, id.Role)
	assert.Equal(t, "a@example.com", id.Email)
}

func TestTokenIssuer_Admin(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123", time.Hour)

	token, _, err := issuer.Issue(Identity{Subject: "admin@example.com", Email: "admin@example.com", Role: RoleAdmin})
	require.NoError(t, err)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, id.Role)
	assert.Equal(t, uuid.Nil, id.AccountID)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123", time.Hour)
	valid, _, err := issuer.Issue(Identity{Subject: uuid.NewString(), Role: RoleUser})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("another-secret-value-0000", time.Hour)
		_, err := other.Verify(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenIssuer("0123456789abcdef0123", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Verify(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		other, _, err := issuer.Issue(Identity{Subject: uuid.NewString(), Role: RoleAdmin})
		require.NoError(t, err)
		parts := strings.Split(valid, ".")
		forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]
		_, err = issuer.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role:             RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: "ledger", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Verify(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("user subject must be uuid", func(t *testing.T) {
		bad, _, err := issuer.Issue(Identity{Subject: "not-a-uuid", Role: RoleUser})
		require.NoError(t, err)
		_, err = issuer.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad, _, err := issuer.Issue(Identity{Subject: uuid.NewString(), Role: "root"})
		require.NoError(t, err)
		_, err = issuer.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	want := Identity{Subject: "s", Role: RoleAdmin}
	got, ok := IdentityFrom(WithIdentity(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
