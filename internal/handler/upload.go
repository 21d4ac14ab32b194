package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/profiledesk/internal/model"
)

// multipartOverhead leaves room for boundaries and the other form fields.
const (
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// readUpload parses the request as a form capped at maxBody bytes and returns
// the file in field, or nil when the form carries no such file.
// Plain urlencoded forms are accepted and yield no file.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxBody int64) (*model.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
		if err != nil {
			return nil, formError(err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, formError(err)
	}
	defer func() {
		removeErr := r.MultipartForm.RemoveAll()
		if removeErr != nil {
			slog.Warn("failed to remove multipart temp files", "error", removeErr)
		}
	}()

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, formError(err)
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &model.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}
