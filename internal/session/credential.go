package session

import (
	"context"
	"net/http"
	"strings"
)

// The storefront never issues or refreshes credentials; it only reads the
// opaque bearer the authentication collaborator left behind, either as an
// Authorization header or as the "jwt" cookie the web client persists.

const (
	credentialCookie = "jwt"
	guestCookie      = "guest_id"
)

type contextKey int

const (
	credentialKey contextKey = iota
	guestIDKey
)

// CredentialFromRequest extracts the bearer credential, empty when the
// session is anonymous.
func CredentialFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(credentialCookie); err == nil {
		return c.Value
	}
	return ""
}

// GuestIDFromRequest returns the anonymous cart cookie, empty when absent.
func GuestIDFromRequest(r *http.Request) string {
	if c, err := r.Cookie(guestCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetGuestCookie persists a guest id on the client for the mirror cart.
func SetGuestCookie(w http.ResponseWriter, guestID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookie,
		Value:    guestID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearGuestCookie drops the guest id after its mirror was merged.
func ClearGuestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey, credential)
}

func CredentialFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(credentialKey).(string); ok {
		return v
	}
	return ""
}

func WithGuestID(ctx context.Context, guestID string) context.Context {
	return context.WithValue(ctx, guestIDKey, guestID)
}

func GuestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(guestIDKey).(string); ok {
		return v
	}
	return ""
}
