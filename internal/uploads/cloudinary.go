package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads images to Cloudinary. References are the secure
// URLs Cloudinary returns.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("uploads: cloudinary url is not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	dir, name := path.Split(key)
	folder := strings.Trim(dir, "/")
	if s.folder != "" {
		folder = s.folder + "/" + folder
	}
	overwrite := false

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID := extractPublicID(ref)
	if publicID == "" {
		return fmt.Errorf("failed to extract public ID from URL: %s", ref)
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}
	return nil
}

func (s *CloudinaryStore) URL(ref string) string {
	return ref
}

// extractPublicID recovers the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v123/rentals/property_images/abc.jpg
func extractPublicID(url string) string {
	parts := strings.SplitN(url, "/upload/", 2)
	if len(parts) < 2 {
		return ""
	}
	segs := strings.Split(parts[1], "/")
	if len(segs) > 1 && isVersion(segs[0]) {
		segs = segs[1:]
	}
	publicID := strings.Join(segs, "/")
	if dot := strings.LastIndex(publicID, "."); dot > strings.LastIndex(publicID, "/") {
		publicID = publicID[:dot]
	}
	return publicID
}

func isVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	return strings.Trim(seg[1:], "0123456789") == ""
}
