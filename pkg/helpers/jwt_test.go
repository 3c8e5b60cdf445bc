package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{ID: "u-1", Name: "A", Email: "a@x.com", Role: "USER_ROLE", Status: true}
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("seed", time.Hour)

	tok, exp, err := m.Issue(testIdentity())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, ok := m.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, testIdentity(), got)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("seed", time.Minute)
	start := time.Now()
	m.now = func() time.Time { return start }

	tok, _, err := m.Issue(testIdentity())
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(59 * time.Second) }
	_, ok := m.Verify(tok)
	assert.True(t, ok)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, ok = m.Verify(tok)
	assert.False(t, ok)
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_Tampered(t *testing.T) {
	m := NewJWTManager("seed", time.Hour)
	tok, _, err := m.Issue(testIdentity())
	require.NoError(t, err)

	// flip one character in every segment
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	for i := range parts {
		seg := []byte(parts[i])
		if seg[0] == 'A' {
			seg[0] = 'B'
		} else {
			seg[0] = 'A'
		}
		mutated := append([]string{}, parts...)
		mutated[i] = string(seg)
		_, ok := m.Verify(strings.Join(mutated, "."))
		assert.False(t, ok, "segment %d", i)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("seed", time.Hour).Issue(testIdentity())
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_MalformedInput(t *testing.T) {
	m := NewJWTManager("seed", time.Hour)
	for _, in := range []string{"", "abc", "a.b.c", "...."} {
		assert.NotPanics(t, func() {
			_, ok := m.Verify(in)
			assert.False(t, ok)
		})
	}
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewJWTManager("seed", time.Hour)
	claims := &Claims{
		User:             testIdentity(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := m.Verify(none)
	assert.False(t, ok)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("seed"))
	require.NoError(t, err)
	_, ok = m.Verify(hs512)
	assert.False(t, ok)
}

func TestJWTManager_RequiresExpiry(t *testing.T) {
	m := NewJWTManager("seed", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{User: testIdentity()}).SignedString([]byte("seed"))
	require.NoError(t, err)
	_, ok := m.Verify(tok)
	assert.False(t, ok)
}
