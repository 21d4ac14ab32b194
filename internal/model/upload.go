package model

import (
	"path/filepath"
	"strings"
)

// Upload is a single file taken from a multipart request.
type Upload struct {
	Filename    string // original client-side name
	ContentType string // declared MIME type
	Size        int64  // declared size in bytes
	Data        []byte
}

// Ext returns the lower-cased extension of the original filename.
func (u *Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}
