package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/goccy/go-json"
)

// FileStore keeps each value in its own JSON file inside a directory
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, FileName(name))
}

// Load implements Store
func (s *FileStore) Load(_ context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendFile, "load", start)

	s.mu.Lock()
	data, err := os.ReadFile(s.path(name))
	s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path(name), err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn(fmt.Sprintf("Archivo %s inválido, se usará el valor por defecto: %v", s.path(name), err), "Store")
	}
	return nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(_ context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendFile, "save", start)

	data, err := encode(name, v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, FileName(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path(name), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", s.path(name), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", s.path(name), err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", s.path(name), err)
	}
	return nil
}
