package handler

import (
	"net/http"

	"github.com/templui/profiledesk/internal/ctxkeys"
	"github.com/templui/profiledesk/internal/service"
)

type PhotoHandler struct {
	photoService  *service.PhotoService
	maxUploadBody int64
}

func NewPhotoHandler(photoService *service.PhotoService, photoMaxSize int64) *PhotoHandler {
	return &PhotoHandler{
		photoService:  photoService,
		maxUploadBody: photoMaxSize + multipartOverhead,
	}
}

// Upload replaces the profile photo with the multipart file "photo".
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	upload, err := readUpload(w, r, "photo", h.maxUploadBody)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if upload == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "No file uploaded"})
		return
	}

	ref, err := h.photoService.ReplacePhoto(r.Context(), ctxkeys.UserID(r.Context()), upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Profile photo updated successfully",
		"filename": ref,
		"url":      h.photoService.PhotoURL(ref),
	})
}

func (h *PhotoHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.photoService.RemovePhoto(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Error removing photo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile photo removed successfully"})
}

func (h *PhotoHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorResponse(r, err, "Error uploading photo")
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
