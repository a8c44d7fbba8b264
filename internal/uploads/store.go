package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Namespace is the folder every property image is stored under.
const Namespace = "property_images"

// Store saves uploaded images and resolves stored references to URLs.
type Store interface {
	// Save stores the content under key and returns the reference to persist.
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

// NewKey builds a collision-free key under Namespace, keeping the upload's
// extension.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return Namespace + "/" + uuid.NewString() + ext
}

// SaveFile stores one multipart upload.
func SaveFile(ctx context.Context, store Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	ref, err := store.Save(ctx, NewKey(fh.Filename), f)
	if err != nil {
		return "", fmt.Errorf("save upload %s: %w", fh.Filename, err)
	}
	return ref, nil
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
