package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images below Dir and serves them from BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(_ context.Context, key string, r io.Reader) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the file; a file that is already gone is not an error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	if isAbsoluteURL(ref) {
		return ref
	}
	return s.BaseURL + "/" + strings.TrimLeft(ref, "/")
}

func (s *LocalStore) path(ref string) (string, error) {
	clean := filepath.Clean("/" + ref)
	if !strings.HasPrefix(clean, "/"+Namespace+"/") {
		return "", fmt.Errorf("uploads: reference %q outside %s", ref, Namespace)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}
