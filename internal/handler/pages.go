package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/templui/profiledesk/internal/ctxkeys"
)

// PageHandler serves the static client pages.
type PageHandler struct {
	files fs.FS
}

func NewPageHandler(files fs.FS) *PageHandler {
	return &PageHandler{files: files}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "index.html")
}

// Profile sends anonymous visitors back to the login page.
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.UserID(r.Context()) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.serve(w, r, "profile.html")
}

func (h *PageHandler) DefaultAvatar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=86400")
	h.serve(w, r, "default-avatar.png")
}

// Static serves the remaining page assets (scripts, styles).
func (h *PageHandler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(h.files)))
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	_, err := fs.Stat(h.files, name)
	if err != nil {
		slog.Error("page missing", "name", name, "error", err)
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, h.files, name)
}
