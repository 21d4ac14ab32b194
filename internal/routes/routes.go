package routes

import (
	"io/fs"
	"net/http"

	profiledesk "github.com/templui/profiledesk"
	"github.com/templui/profiledesk/internal/app"
	"github.com/templui/profiledesk/internal/handler"
	"github.com/templui/profiledesk/internal/middleware"
	"github.com/templui/profiledesk/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	public, _ := fs.Sub(profiledesk.PublicFS, "public")
	pages := handler.NewPageHandler(public)
	health := handler.NewHealthHandler(app.Ping)
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.ProfileService, app.Cfg.CertificateMaxSize)
	photo := handler.NewPhotoHandler(app.PhotoService, app.Cfg.PhotoMaxSize)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Pages and static files
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("GET /profile", pages.Profile)
	mux.HandleFunc("GET /default-avatar.png", pages.DefaultAvatar)
	mux.Handle("GET /static/", pages.Static())

	// Uploaded blobs, S3 serves its own (presigned) URLs
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads", handler.Uploads(local.Root())))
	}

	// Liveness
	mux.HandleFunc("GET /healthz", health.Health)

	// Auth
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", middleware.RequireAuth(auth.Logout))

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Profile
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Get))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("PUT /api/profile/social", middleware.RequireAuth(profile.UpdateSocialLinks))
	mux.HandleFunc("PUT /api/profile/interests", middleware.RequireAuth(profile.UpdateInterests))
	mux.HandleFunc("POST /api/profile/certificates", middleware.RequireAuth(profile.AddCertificate))

	// Photo
	mux.HandleFunc("POST /api/profile/photo", middleware.RequireAuth(photo.Upload))
	mux.HandleFunc("DELETE /api/profile/photo", middleware.RequireAuth(photo.Remove))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,         // Outermost so panics in later middleware are caught too
		middleware.SecurityHeaders, // Security headers for all responses
		middleware.RequestLogging,
		middleware.Session(app.AuthService),
	)

	return handler
}
