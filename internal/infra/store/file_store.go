package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/repository"
	"telegram-productivity-coach/internal/infra/metrics"
)

// Compile-time check
var _ repository.UserStore = (*FileStore)(nil)

// FileStore persists the user mapping as one JSON document. Writes go to a
// temp file in the same directory followed by rename, so a crash mid-write
// leaves the previous document intact.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store path empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (map[string]*model.UserRecord, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]*model.UserRecord{}, nil
		}
		return nil, fmt.Errorf("read user store: %w", err)
	}
	users := map[string]*model.UserRecord{}
	if len(b) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("decode user store: %w", err)
	}
	return users, nil
}

func (s *FileStore) Save(ctx context.Context, users map[string]*model.UserRecord) error {
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		metrics.IncStoreSaveError()
		return fmt.Errorf("encode user store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		metrics.IncStoreSaveError()
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		metrics.IncStoreSaveError()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		metrics.IncStoreSaveError()
		return fmt.Errorf("sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		metrics.IncStoreSaveError()
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		metrics.IncStoreSaveError()
		return fmt.Errorf("commit user store: %w", err)
	}
	return nil
}
