package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/easymind/easymind/core"
	"github.com/easymind/easymind/core/content"
)

// diskStore writes files under a local root; for development and tests where
// no bucket is configured. URLs are file paths, good enough locally.
type diskStore struct {
	root string
}

var _ content.FileStore = (*diskStore)(nil) // interface compliance check

func NewDiskStore(conf *core.Config) (content.FileStore, error) {
	if err := os.MkdirAll(conf.Blob.DiskRoot, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating blob root")
	}
	return &diskStore{root: conf.Blob.DiskRoot}, nil
}

func (s *diskStore) Upload(_ context.Context, key string, body io.Reader) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "creating blob dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating blob file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, body); err != nil {
		return "", errors.Wrap(err, "writing blob file")
	}
	return "file://" + filepath.ToSlash(path), nil
}
