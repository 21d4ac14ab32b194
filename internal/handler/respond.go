package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/templui/profiledesk/internal/service"
)

const maxJSONBody = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// errorResponse maps service errors to a status and a client-safe message.
// Anything unexpected is logged and reported with fallback.
func errorResponse(r *http.Request, err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, errBodyTooLarge), errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File size too large"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, sentence(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrUsernameOrEmailTaken):
		return http.StatusBadRequest, "Username or email already exists"
	}

	slog.ErrorContext(r.Context(), fallback, "error", err, "method", r.Method, "path", r.URL.Path)
	return http.StatusInternalServerError, fallback
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := errorResponse(r, err, fallback)
	writeError(w, status, message)
}

func sentence(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}

// fields is a flat request body, from JSON or from a form.
type fields map[string]string

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) ptr(key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return &v
}

// readFields accepts a JSON object or an urlencoded or multipart form.
// JSON null counts as absent.
func readFields(w http.ResponseWriter, r *http.Request) (fields, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxJSONBody)
			if r.MultipartForm != nil {
				defer r.MultipartForm.RemoveAll()
			}
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return nil, formError(err)
		}
		out := fields{}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				out[key] = values[0]
			}
		}
		return out, nil
	}

	var raw map[string]any
	err := decodeJSON(w, r, &raw)
	if err != nil {
		return nil, err
	}

	out := fields{}
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			out[key] = v
		case float64, bool:
			out[key] = fmt.Sprint(v)
		default:
			return nil, service.NewValidationError(key + " must be a string")
		}
	}
	return out, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return service.NewValidationError("request body is empty")
	}
	if err != nil {
		return formError(err)
	}
	return nil
}

func formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return service.NewValidationError("malformed request body")
}
