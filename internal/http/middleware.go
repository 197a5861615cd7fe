package http

import (
	"net/http"

	"github.com/DANCANKARANI/e-commerce/internal/session"
)

// SessionMiddleware lifts the bearer credential and guest id off the
// request so handlers work against context values only.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := session.WithCredential(r.Context(), session.CredentialFromRequest(r))
		ctx = session.WithGuestID(ctx, session.GuestIDFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
