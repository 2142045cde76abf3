package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edusenior/eduterm/internal/models"
)

// Fixed storage keys, mirroring the browser client's localStorage names.
const (
	keyToken        = "token"
	keyRefreshToken = "refresh_token"
)

// Store persists the bearer credential between invocations. It is written
// once at login and read-only everywhere else; a mutex guards the file for
// callers sharing one Store across goroutines.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the persisted access token, if any.
func (s *Store) Token() (string, bool) {
	return s.read(keyToken)
}

// RefreshToken returns the persisted refresh token, if any.
func (s *Store) RefreshToken() (string, bool) {
	return s.read(keyRefreshToken)
}

// Save persists the credential pair after a successful login.
func (s *Store) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{keyToken: access}
	if refresh != "" {
		values[keyRefreshToken] = refresh
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the persisted credentials.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Role reads the role claim from the stored access token. The token is
// decoded without signature verification: the client holds no key and the
// server re-checks the token on every request anyway.
func (s *Store) Role() (models.Role, bool) {
	token, ok := s.Token()
	if !ok {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	raw, _ := claims["role"].(string)
	role := models.Role(raw)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

func (s *Store) read(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return "", false
	}
	value, ok := values[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
