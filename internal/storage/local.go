package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalDisk stores files in a directory on the local filesystem.
type LocalDisk struct {
	root string
}

func NewLocalDisk(root string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir: %w", err)
	}
	return &LocalDisk{root: root}, nil
}

func (d *LocalDisk) abs(name string) string {
	return filepath.Join(d.root, filepath.Base(name))
}

func (d *LocalDisk) Put(_ context.Context, name string, r io.Reader, _ string) error {
	f, err := os.Create(d.abs(name))
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	return f.Close()
}

func (d *LocalDisk) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(d.abs(name))
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", name, err)
	}
	return f, nil
}

func (d *LocalDisk) Delete(_ context.Context, name string) error {
	err := os.Remove(d.abs(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}

func (d *LocalDisk) Exists(_ context.Context, name string) bool {
	_, err := os.Stat(d.abs(name))
	return err == nil
}
