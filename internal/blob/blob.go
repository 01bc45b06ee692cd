// Package blob recovers storage object paths from download URLs and deletes
// the objects behind them. Deletion is best-effort by contract: an orphaned
// blob is acceptable, a blocked mutation is not.
package blob

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

// Download URLs carry the object path between the bucket marker and the
// query string, URL-encoded.
const bucketMarker = "/o/"

// PathFromURL recovers the object path encoded in a download URL. URLs that
// do not follow the upload convention yield "", meaning no deletion is
// performed.
func PathFromURL(rawURL string) string {
	i := strings.Index(rawURL, bucketMarker)
	if i < 0 {
		return ""
	}
	rest := rawURL[i+len(bucketMarker):]
	if j := strings.IndexByte(rest, '?'); j >= 0 {
		rest = rest[:j]
	}
	path, err := url.QueryUnescape(rest)
	if err != nil {
		return ""
	}
	return path
}

// Deleter removes a stored object by path.
type Deleter interface {
	Delete(ctx context.Context, path string) error
}

// BucketDeleter deletes objects from a Cloud Storage bucket. A missing
// object is treated as already deleted.
type BucketDeleter struct {
	bucket *storage.BucketHandle
}

func NewBucketDeleter(bucket *storage.BucketHandle) *BucketDeleter {
	return &BucketDeleter{bucket: bucket}
}

func (d *BucketDeleter) Delete(ctx context.Context, path string) error {
	err := d.bucket.Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// Discard ignores deletes; used when no bucket is configured.
type Discard struct{}

func (Discard) Delete(context.Context, string) error { return nil }
