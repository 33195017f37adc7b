// Package storage persists uploaded profile photos on local disk or in an S3 bucket.
package storage

import (
	"context"
	"fmt"
	"strings"

	"skillswap/internal/config"
)

// PhotoStore saves an object and returns the URL clients should use to fetch it.
type PhotoStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// AllowedContentType reports whether contentType is an accepted photo format.
func AllowedContentType(contentType string) bool {
	_, ok := extensions[contentType]
	return ok
}

// PhotoKey names a user's profile photo. A new upload replaces the previous one.
func PhotoKey(userID uint, contentType string) string {
	return fmt.Sprintf("user_%d_profile%s", userID, extensions[contentType])
}

// New builds the store selected by PHOTO_STORE.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch strings.ToLower(cfg.PhotoStore) {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix), nil
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported PHOTO_STORE %q", cfg.PhotoStore)
	}
}
