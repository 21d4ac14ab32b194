package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/profiledesk/internal/service"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"body too large", errBodyTooLarge, http.StatusRequestEntityTooLarge, "File size too large"},
		{"file too large", fmt.Errorf("photo: %w", service.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "File size too large"},
		{"validation", service.NewValidationError("name is required"), http.StatusBadRequest, "Name is required"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "User not found"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"taken", service.ErrUsernameOrEmailTaken, http.StatusBadRequest, "Username or email already exists"},
		{"storage", fmt.Errorf("%w: disk full", service.ErrStorageWrite), http.StatusInternalServerError, "Error uploading photo"},
		{"consistency", service.ErrConsistency, http.StatusInternalServerError, "Error uploading photo"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Error uploading photo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/profile/photo", nil)
			status, msg := errorResponse(r, tc.err, "Error uploading photo")
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestReadFields_JSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"Ada","year":1815,"phone":null,"github":""}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	in, err := readFields(httptest.NewRecorder(), r)
	require.NoError(t, err)

	assert.Equal(t, "Ada", in["name"])
	assert.Equal(t, "1815", in["year"])
	assert.False(t, in.has("phone"))
	assert.True(t, in.has("github"))
	require.NotNil(t, in.ptr("github"))
	assert.Equal(t, "", *in.ptr("github"))
	assert.Nil(t, in.ptr("twitter"))
}

func TestReadFields_Form(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("username=ada&password=secret"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := readFields(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, fields{"username": "ada", "password": "secret"}, in)
}

func TestReadFields_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("fullName", "Ada Lovelace"))
	require.NoError(t, mw.WriteField("github", ""))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPut, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := readFields(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, fields{"fullName": "Ada Lovelace", "github": ""}, in)
}

func TestReadFields_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty", "", service.ErrValidation},
		{"malformed", "{", service.ErrValidation},
		{"nested", `{"name":{"first":"Ada"}}`, service.ErrValidation},
		{"too large", `{"name":"` + strings.Repeat("a", maxJSONBody) + `"}`, errBodyTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")

			_, err := readFields(httptest.NewRecorder(), r)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSentence(t *testing.T) {
	assert.Equal(t, "Name is required", sentence("name is required"))
	assert.Equal(t, "", sentence(""))
	assert.Equal(t, "Élan", sentence("élan"))
}
