package forms

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// CheckImages sniffs every uploaded file and reports, under field, the ones
// that are not images or exceed maxBytes. maxBytes <= 0 disables the size check.
func CheckImages(errs Errors, field string, files []*multipart.FileHeader, maxBytes int64) {
	for _, fh := range files {
		if maxBytes > 0 && fh.Size > maxBytes {
			errs.Add(field, fmt.Sprintf("%s is too large (maximum is %d bytes).", fh.Filename, maxBytes))
			continue
		}
		mtype, err := sniff(fh)
		if err != nil {
			errs.Add(field, fmt.Sprintf("%s could not be read.", fh.Filename))
			continue
		}
		if !strings.HasPrefix(mtype.String(), "image/") {
			errs.Add(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
	}
}

func sniff(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mimetype.DetectReader(f)
}
