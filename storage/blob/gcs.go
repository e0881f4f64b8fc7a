package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/easymind/easymind/core"
	"github.com/easymind/easymind/core/content"
)

// gcsStore uploads files to a Google Cloud Storage bucket and serves them
// at their public object URL (or BaseURL when fronted by a CDN).
type gcsStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

var _ content.FileStore = (*gcsStore)(nil) // interface compliance check

func NewGCSStore(ctx context.Context, conf *core.Config) (content.FileStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &gcsStore{
		client:  client,
		bucket:  conf.Blob.Bucket,
		baseURL: conf.Blob.BaseURL,
	}, nil
}

func (s *gcsStore) Upload(ctx context.Context, key string, body io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing object writer")
	}

	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key), nil
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}
