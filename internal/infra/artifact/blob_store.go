// Package artifact persists per-chunk debug artifacts through a gocloud blob
// bucket so the same code path can later target a cloud bucket.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hearth/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

type blobStore struct {
	bucket *blob.Bucket
}

// NewChunkStore opens a file-backed bucket rooted at dir, creating the
// directory if needed.
func NewChunkStore(dir string) (service.ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create artifact directory")
	}

	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open artifact bucket")
	}

	return &blobStore{bucket: bucket}, nil
}

// SaveChunk writes the payload as pretty-printed JSON keyed by the zero-padded
// chunk index.
func (s *blobStore) SaveChunk(ctx context.Context, index int, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal chunk artifact")
	}

	key := fmt.Sprintf("chunk-%03d.json", index)
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errors.Wrapf(err, "failed to write chunk artifact %s", key)
	}

	return nil
}

// Close releases the underlying bucket.
func (s *blobStore) Close() error {
	return s.bucket.Close()
}
