// Package mediastore abstracts where uploaded photo and document bytes live.
// Backends: local disk for development, S3-compatible object storage for
// cloud deployments. Keys are opaque to callers and always scoped under the
// owning user, so one user can never address another user's media.
package mediastore

import (
	"context"
	"io"
)

type MediaStore interface {
	// Save stores the media bytes and returns the storage key.
	Save(ctx context.Context, ownerID, mimeType string, r io.Reader) (storageKey string, err error)
	// Get returns the media bytes and their mime type.
	Get(ctx context.Context, ownerID, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, ownerID, storageKey string) error
}

// Presigner is implemented by backends that can hand out direct-upload URLs,
// so large files bypass the service. The returned key is what the client
// records as the memory's mediaUrl after uploading.
type Presigner interface {
	// PresignPut returns a short-lived URL accepting a PUT of the given mime
	// type, together with the storage key the upload will land under.
	PresignPut(ctx context.Context, ownerID, mimeType string) (uploadURL, storageKey string, err error)
}
