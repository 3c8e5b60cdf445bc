package gcs

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
)

// ErrAssetNotFound is returned when the object does not exist or the key is unsafe.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is an open object stream. Callers must close Body.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// AssetStore serves objects stored under a prefix of a GCS bucket.
type AssetStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewAssetStore(client *storage.Client, bucket, prefix string) *AssetStore {
	return &AssetStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ObjectPath joins kind and name under the store prefix, rejecting traversal.
func ObjectPath(prefix, kind, name string) (string, bool) {
	for _, part := range []string{kind, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", false
		}
	}
	return path.Join(prefix, kind, name), true
}

func (s *AssetStore) Open(ctx context.Context, kind, name string) (*Asset, error) {
	objectPath, ok := ObjectPath(s.prefix, kind, name)
	if !ok {
		return nil, ErrAssetNotFound
	}
	r, err := s.client.Bucket(s.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return &Asset{Body: r, ContentType: r.Attrs.ContentType, Size: r.Attrs.Size}, nil
}
