package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mdobak/go-xerrors"
)

// TokenStorage is where the client keeps its bearer token between runs.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type FileTokenStorage struct {
	path string
}

func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

// DefaultTokenPath is devconnector/token under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", xerrors.New(err)
	}
	return filepath.Join(dir, "devconnector", "token"), nil
}

// Load returns an empty token when nothing was saved yet.
func (s *FileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", xerrors.New(err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return xerrors.New(err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (s *FileTokenStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerrors.New(err)
	}
	return nil
}

type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStorage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStorage) Clear() error {
	return s.Save("")
}
