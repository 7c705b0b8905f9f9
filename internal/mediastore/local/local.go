// Package local stores media on the local filesystem, one subdirectory per
// owner. Intended for development and single-node deployments.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type LocalMediaStore struct {
	basePath string
}

func NewLocalMediaStore(basePath string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalMediaStore{basePath: basePath}, nil
}

func (s *LocalMediaStore) Save(ctx context.Context, ownerID, mimeType string, r io.Reader) (string, error) {
	dir := filepath.Join(s.basePath, ownerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create owner directory: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), mimeTypeToExt(mimeType))
	filePath := filepath.Join(dir, filename)

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close file after write error")
		}
		if rerr := os.Remove(filePath); rerr != nil {
			log.Error().Err(rerr).Msg("failed to remove file after write error")
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			log.Error().Err(rerr).Msg("failed to remove file after close error")
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return filename, nil
}

func (s *LocalMediaStore) Get(ctx context.Context, ownerID, storageKey string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(ownerID, storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("media: %w", model.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, extToMimeType(filePath), nil
}

func (s *LocalMediaStore) Delete(ctx context.Context, ownerID, storageKey string) error {
	filePath, err := s.safeJoin(ownerID, storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("media: %w", model.ErrNotFound)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// safeJoin resolves storageKey under the owner's directory and rejects
// directory traversal.
func (s *LocalMediaStore) safeJoin(ownerID, storageKey string) (string, error) {
	absBase, err := filepath.Abs(filepath.Join(s.basePath, ownerID))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, ownerID, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	default:
		return ".jpg"
	}
}

func extToMimeType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "image/jpeg"
	}
}
