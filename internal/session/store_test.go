package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/edusenior/eduterm/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "session.json"))
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "t@example.com",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Token()
	require.False(t, ok)

	require.NoError(t, store.Save("access", "refresh"))

	token, ok := store.Token()
	require.True(t, ok)
	require.Equal(t, "access", token)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh", refresh)
}

func TestStoreSaveWithoutRefreshToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("access", ""))

	_, ok := store.RefreshToken()
	require.False(t, ok)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("access", "refresh"))
	require.NoError(t, store.Clear())

	_, ok := store.Token()
	require.False(t, ok)

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear())
}

func TestStoreRoleFromToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(signedToken(t, "teacher"), ""))

	role, ok := store.Role()
	require.True(t, ok)
	require.Equal(t, models.RoleTeacher, role)
}

func TestStoreRoleRejectsUnknownRole(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(signedToken(t, "admin"), ""))

	_, ok := store.Role()
	require.False(t, ok)
}

func TestStoreRoleWithMalformedToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("not-a-jwt", ""))

	_, ok := store.Role()
	require.False(t, ok)
}
