package middleware

import (
	"net/http"

	"github.com/templui/profiledesk/internal/ctxkeys"
	"github.com/templui/profiledesk/internal/service"
)

// Session reads the session cookie and puts the verified account id in the context.
// Requests without a valid token continue anonymously.
func Session(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.UserIDFromToken(cookie.Value)
			if err != nil {
				// Expired or forged, drop it
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	}
}
