package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

func testUser() models.User {
	return models.User{UserID: "u1", Name: "Sadia Rahman", Email: "seller@bidstock.dev", Role: models.RoleSeller}
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// Tests SignIn / Hydrate round trip
func TestSignInPersistsAndHydrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.SignIn(testUser(), token))
	require.True(t, store.IsAuthenticated())
	require.Equal(t, token, store.Token())
	require.Equal(t, models.RoleSeller, store.Role())

	// a fresh store picks the session up from disk
	reloaded := NewStore(path)
	reloaded.Hydrate()
	user, ok := reloaded.User()
	require.True(t, ok)
	require.Equal(t, "u1", user.UserID)
	require.Equal(t, token, reloaded.Token())
	require.True(t, reloaded.IsAuthenticated())
}

// Tests SignIn validation
func TestSignInRejectsEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	err := store.SignIn(models.User{}, "token")
	require.ErrorIs(t, err, clienterrors.ErrValidation)

	err = store.SignIn(testUser(), "")
	require.ErrorIs(t, err, clienterrors.ErrValidation)
	require.False(t, store.IsAuthenticated())
}

// Tests SignOut
func TestSignOutClearsEverything(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	require.NoError(t, store.SignIn(testUser(), signedToken(t, time.Now().Add(time.Hour))))

	require.NoError(t, store.SignOut())

	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())
	_, ok := store.User()
	require.False(t, ok)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// signing out twice is fine
	require.NoError(t, store.SignOut())
}

// Tests Hydrate edge cases
func TestHydrateTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing_file", content: nil},
		{name: "corrupt_json", content: strPtr("{not json")},
		{name: "empty_token", content: strPtr(`{"user":{"user_id":"u1"},"token":""}`)},
		{name: "missing_user", content: strPtr(`{"user":null,"token":"abc"}`)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "session.json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o600))
			}

			store := NewStore(path)
			store.Hydrate()

			require.False(t, store.IsAuthenticated())
			_, ok := store.User()
			require.False(t, ok)
		})
	}
}

func strPtr(s string) *string { return &s }

// Tests RequireUser
func TestRequireUser(t *testing.T) {
	t.Parallel()

	t.Run("signed_out", func(t *testing.T) {
		t.Parallel()

		store := NewStore(filepath.Join(t.TempDir(), "session.json"))
		_, err := store.RequireUser()
		require.ErrorIs(t, err, clienterrors.ErrNotSignedIn)
	})

	t.Run("expired_token", func(t *testing.T) {
		t.Parallel()

		store := NewStore(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.SignIn(testUser(), signedToken(t, time.Now().Add(-time.Minute))))

		require.False(t, store.IsAuthenticated())
		_, err := store.RequireUser()
		require.ErrorIs(t, err, clienterrors.ErrSessionExpired)
	})

	t.Run("valid_token", func(t *testing.T) {
		t.Parallel()

		store := NewStore(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.SignIn(testUser(), signedToken(t, time.Now().Add(time.Hour))))

		user, err := store.RequireUser()
		require.NoError(t, err)
		require.Equal(t, "u1", user.UserID)
	})

	t.Run("opaque_token_left_to_server", func(t *testing.T) {
		t.Parallel()

		store := NewStore(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, store.SignIn(testUser(), "not-a-jwt"))

		require.True(t, store.IsAuthenticated())
		_, err := store.RequireUser()
		require.NoError(t, err)
	})
}
