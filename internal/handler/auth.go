package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/profiledesk/internal/ctxkeys"
	"github.com/templui/profiledesk/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		writeServiceError(w, r, err, "Error registering user")
		return
	}

	_, err = h.authService.Register(r.Context(), service.RegisterInput{
		Username: in["username"],
		Password: in["password"],
		Email:    in["email"],
		Name:     in["name"],
		Year:     in["year"],
		Phone:    in["phone"],
		Mobile:   in["mobile"],
		Address:  in["address"],
	})
	if err != nil {
		writeServiceError(w, r, err, "Error registering user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Registration successful"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		writeServiceError(w, r, err, "Error logging in")
		return
	}

	user, err := h.authService.Login(r.Context(), in["username"], in["password"])
	if err != nil {
		writeServiceError(w, r, err, "Error logging in")
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		writeServiceError(w, r, err, "Error logging in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": map[string]string{
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)

	slog.Info("user logged out", "user_id", ctxkeys.UserID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}
