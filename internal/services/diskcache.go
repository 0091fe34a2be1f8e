package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DiskCache stores resolver results as JSON files so they survive across the
// short-lived CLI invocations and daemon restarts. Writes go through a temp
// file and a rename so an interrupted write can never leave a half-written
// entry behind.
type DiskCache struct {
	dir    string
	logger *zap.Logger
}

func NewDiskCache(dir string, logger *zap.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create cache dir: %v", ErrPersistence, err)
	}
	return &DiskCache{dir: dir, logger: logger}, nil
}

// Read decodes the named entry into v and reports when it was stored.
// A missing entry is ErrCacheMiss; anything unreadable or undecodable is
// treated the same way after logging, so callers only ever see hit or miss.
func (c *DiskCache) Read(name string, v interface{}) (time.Time, error) {
	path := filepath.Join(c.dir, name)

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, ErrCacheMiss
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("Cache entry unreadable",
			zap.String("entry", name),
			zap.Error(err))
		return time.Time{}, ErrCacheMiss
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("Cache entry corrupt, discarding",
			zap.String("entry", name),
			zap.Error(err))
		_ = os.Remove(path)
		return time.Time{}, ErrCacheMiss
	}

	return info.ModTime(), nil
}

// Write stores v as the named entry via write-temp-then-rename.
func (c *DiskCache) Write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, name, err)
	}

	path := filepath.Join(c.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, name, err)
	}

	c.logger.Debug("Cache entry written", zap.String("entry", name))
	return nil
}

// Drop removes the named entry. Removing a missing entry is not an error.
func (c *DiskCache) Drop(name string) error {
	path := filepath.Join(c.dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: drop %s: %v", ErrPersistence, name, err)
	}
	return nil
}
