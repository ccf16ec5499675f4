package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage keeps each key as a small JSON file below a base directory.
// Writes go through a temp file and rename so readers never observe a half
// written blob.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(path string) (*DiskStorage, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}
	return &DiskStorage{Path: path}, nil
}

func (d *DiskStorage) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.fileName(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (d *DiskStorage) Set(_ context.Context, key string, value []byte) error {
	fileName := d.fileName(key)
	tmpFileName := fileName + ".tmp"

	if err := os.WriteFile(tmpFileName, value, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(d.fileName(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *DiskStorage) fileName(key string) string {
	// Keys derive from entity ids which may contain a dot separator.
	safe := strings.NewReplacer("/", "_", "..", "_").Replace(key)
	return filepath.Join(d.Path, safe+".json")
}
