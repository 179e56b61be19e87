package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Credentials is what survives a restart: the access token and the identity
// it belongs to.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// CredentialStore persists credentials across runs. Implementations must
// tolerate concurrent use from the auth state and the 401 hook.
type CredentialStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

const credsFilename = "credentials.json"

// FileStore keeps credentials as a 0600 JSON file under dir.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path() string { return filepath.Join(s.dir, credsFilename) }

func (s *FileStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (s *FileStore) Save(creds Credentials) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemStore is an in-memory CredentialStore for tests.
type MemStore struct {
	mu    sync.Mutex
	creds Credentials
	err   error // returned by Load when set
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore { return &MemStore{} }

// SetLoadError makes the next Load fail, simulating corrupt storage.
func (s *MemStore) SetLoadError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *MemStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Credentials{}, s.err
	}
	return s.creds, nil
}

func (s *MemStore) Save(creds Credentials) error {
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	s.creds = Credentials{}
	s.mu.Unlock()
	return nil
}
