package handler

import (
	"net/http"

	"github.com/templui/profiledesk/internal/ctxkeys"
	"github.com/templui/profiledesk/internal/model"
	"github.com/templui/profiledesk/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	maxUploadBody  int64
}

func NewProfileHandler(profileService *service.ProfileService, certificateMaxSize int64) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxUploadBody:  certificateMaxSize + multipartOverhead,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.Profile(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Error fetching profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		writeServiceError(w, r, err, "Error updating profile")
		return
	}

	err = h.profileService.UpdateProfile(r.Context(), ctxkeys.UserID(r.Context()), service.ProfileUpdate{
		Name:     in["name"],
		FullName: in["fullName"],
		Email:    in["email"],
		Year:     in["year"],
		Phone:    in["phone"],
		Mobile:   in["mobile"],
		Address:  in["address"],
	})
	if err != nil {
		writeServiceError(w, r, err, "Error updating profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated successfully"})
}

func (h *ProfileHandler) UpdateSocialLinks(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		writeServiceError(w, r, err, "Error updating social links")
		return
	}

	links, err := h.profileService.UpdateSocialLinks(r.Context(), ctxkeys.UserID(r.Context()), service.SocialLinksUpdate{
		GitHub:    in.ptr("github"),
		Twitter:   in.ptr("twitter"),
		Instagram: in.ptr("instagram"),
		Facebook:  in.ptr("facebook"),
	})
	if err != nil {
		writeServiceError(w, r, err, "Error updating social links")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Social links updated successfully",
		"socialLinks": links,
	})
}

func (h *ProfileHandler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Interests []model.Interest `json:"interests"`
	}
	err := decodeJSON(w, r, &body)
	if err != nil {
		writeServiceError(w, r, err, "Error updating interests")
		return
	}

	interests, err := h.profileService.UpdateInterests(r.Context(), ctxkeys.UserID(r.Context()), body.Interests)
	if err != nil {
		writeServiceError(w, r, err, "Error updating interests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Interests updated successfully",
		"interests": interests,
	})
}

func (h *ProfileHandler) AddCertificate(w http.ResponseWriter, r *http.Request) {
	file, err := readUpload(w, r, "certificateFile", h.maxUploadBody)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add certificate")
		return
	}

	cert, err := h.profileService.AddCertificate(r.Context(), ctxkeys.UserID(r.Context()), service.CertificateInput{
		Name:        r.FormValue("name"),
		Issuer:      r.FormValue("issuer"),
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
		File:        file,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to add certificate")
		return
	}

	writeJSON(w, http.StatusOK, cert)
}
