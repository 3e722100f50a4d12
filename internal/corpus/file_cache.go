package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const fileCacheVersion = 1

type cacheFile struct {
	Version   int         `json:"version"`
	Model     string      `json:"model"`
	CreatedAt time.Time   `json:"created_at"`
	Jobs      []JobRecord `json:"jobs"`
}

// FileCacheStore keeps the embedded corpus in a single JSON file. A file
// written for a different embedding model is treated as invalid.
type FileCacheStore struct {
	path  string
	model string
}

func NewFileCacheStore(path, model string) *FileCacheStore {
	return &FileCacheStore{path: path, model: model}
}

func (s *FileCacheStore) Path() string { return s.path }

func (s *FileCacheStore) Load(_ context.Context) ([]JobRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCache
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", s.path, err)
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidCache, s.path, err)
	}
	if f.Version != fileCacheVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidCache, f.Version, fileCacheVersion)
	}
	if s.model != "" && f.Model != s.model {
		return nil, fmt.Errorf("%w: built with model %q, want %q", ErrInvalidCache, f.Model, s.model)
	}
	return f.Jobs, nil
}

// Save writes to a temporary file next to the target and renames it into place.
func (s *FileCacheStore) Save(_ context.Context, jobs []JobRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	f := cacheFile{
		Version:   fileCacheVersion,
		Model:     s.model,
		CreatedAt: time.Now().UTC(),
		Jobs:      jobs,
	}
	if err := json.NewEncoder(tmp).Encode(&f); err != nil {
		tmp.Close()
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
