package validation

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/templui/profiledesk/internal/model"
)

var (
	ErrEmptyFile    = errors.New("uploaded file is empty")
	ErrFileTooLarge = errors.New("file too large")
	ErrFileType     = errors.New("file type not allowed")
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// ImageConstraints defines validation rules for profile photos
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/gif":  true,
			"image/webp": true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".gif":  true,
			".webp": true,
		},
		MaxSize: 5 << 20, // 5MB
	}

	// CertificateConstraints accepts scanned certificates as PDF or image
	CertificateConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"application/pdf": true,
			"image/jpeg":      true,
			"image/png":       true,
			"image/webp":      true,
		},
		AllowedExtensions: map[string]bool{
			".pdf":  true,
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
		},
		MaxSize: 10 << 20, // 10MB
	}
)

// WithMaxSize returns a copy of the constraints with a different size limit.
func (c FileConstraints) WithMaxSize(n int64) FileConstraints {
	c.MaxSize = n
	return c
}

// ValidateFile validates an upload against one or more constraint sets
// If multiple constraints are provided, file must match at least one (OR logic)
func ValidateFile(upload *model.Upload, constraints ...FileConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no file constraints provided")
	}
	if upload == nil || len(upload.Data) == 0 {
		return ErrEmptyFile
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(upload, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

// validateAgainstConstraint validates an upload against a single constraint set
func validateAgainstConstraint(upload *model.Upload, constraints FileConstraints) error {
	// Size first, the declared size and the bytes actually received must both fit
	size := max(upload.Size, int64(len(upload.Data)))
	if size > constraints.MaxSize {
		return fmt.Errorf("%w: maximum size is %s", ErrFileTooLarge, humanize.IBytes(uint64(constraints.MaxSize)))
	}

	declared := declaredType(upload.ContentType)
	if !constraints.AllowedMimeTypes[declared] {
		return fmt.Errorf("%w: declared %q", ErrFileType, upload.ContentType)
	}

	// Detect actual content type from magic numbers, a renamed file cannot pass
	detected := http.DetectContentType(upload.Data[:min(len(upload.Data), 512)])
	if !constraints.AllowedMimeTypes[detected] {
		return fmt.Errorf("%w: detected %s", ErrFileType, detected)
	}

	ext := upload.Ext()
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("%w: extension %q", ErrFileType, ext)
	}

	return nil
}

func declaredType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
