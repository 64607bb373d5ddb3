package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the slot file inside the client state directory.
const FileName = "tapea_pending_vote.json"

// FileCache keeps the pending vote in a JSON file so it survives restarts.
type FileCache struct {
	path string
	mu   sync.Mutex
}

// NewFileCache stores the slot at dir/FileName.
func NewFileCache(dir string) *FileCache {
	return &FileCache{path: filepath.Join(dir, FileName)}
}

// Path returns the slot file location.
func (c *FileCache) Path() string { return c.path }

func (c *FileCache) Load(ctx context.Context) (*Vote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending vote: %w", err)
	}

	var v Vote
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode pending vote: %w", err)
	}
	return &v, nil
}

func (c *FileCache) Save(ctx context.Context, v Vote) error {
	if err := v.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode pending vote: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// write-then-rename so a crash never leaves a half-written slot
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write pending vote: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("commit pending vote: %w", err)
	}
	return nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear pending vote: %w", err)
	}
	return nil
}
