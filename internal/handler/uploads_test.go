package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploads_ServesFilesOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "profiles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "profiles", "1700000000000-1a2b3c4d.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "profiles", ".upload-123"), []byte("partial"), 0o644))

	h := http.StripPrefix("/uploads", Uploads(root))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/uploads/profiles/1700000000000-1a2b3c4d.png", http.StatusOK},
		{"/uploads/", http.StatusNotFound},
		{"/uploads/profiles/", http.StatusNotFound},
		{"/uploads/profiles", http.StatusNotFound},
		{"/uploads/profiles/.upload-123", http.StatusNotFound},
		{"/uploads/profiles/missing.png", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "png", rec.Body.String())
			} else {
				assert.NotContains(t, rec.Body.String(), "1a2b3c4d")
			}
		})
	}
}
