package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

const resultFile = "result.json"

// FS keeps one directory per extraction under Root. A positive TTL hides
// entries older than it from Get.
type FS struct {
	Root string
	TTL  time.Duration
}

func NewFS(root string, ttl time.Duration) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FS{Root: root, TTL: ttl}, nil
}

func (s *FS) JobDir(id string) string { return filepath.Join(s.Root, id) }

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && filepath.Base(id) == id
}

func (s *FS) Put(ctx context.Context, ex types.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(ex.ID) {
		return fmt.Errorf("invalid extraction id %q", ex.ID)
	}
	dir := s.JobDir(ex.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(ex)
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, resultFile+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, resultFile))
}

func (s *FS) Get(ctx context.Context, id string) (types.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return types.Extraction{}, err
	}
	if !validID(id) {
		return types.Extraction{}, notFound(id)
	}
	ex, err := s.read(id)
	if err != nil {
		return types.Extraction{}, err
	}
	if s.TTL > 0 && expired(ex, time.Now(), s.TTL) {
		return types.Extraction{}, notFound(id)
	}
	return ex, nil
}

func (s *FS) read(id string) (types.Extraction, error) {
	b, err := os.ReadFile(filepath.Join(s.JobDir(id), resultFile))
	if errors.Is(err, os.ErrNotExist) {
		return types.Extraction{}, notFound(id)
	}
	if err != nil {
		return types.Extraction{}, err
	}
	var ex types.Extraction
	if err := json.Unmarshal(b, &ex); err != nil {
		return types.Extraction{}, fmt.Errorf("decode %s: %w", id, err)
	}
	return ex, nil
}

func (s *FS) EvictOlderThan(ctx context.Context, age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	n := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if !e.IsDir() {
			continue
		}
		ex, err := s.read(e.Name())
		if err != nil {
			// half-written or foreign directory
			continue
		}
		if !expired(ex, now, age) {
			continue
		}
		if err := os.RemoveAll(s.JobDir(e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
