package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

type contextKey string

const (
	sessionContextKey contextKey = "session_id"
	tokenContextKey   contextKey = "bearer_token"
)

// SessionMiddleware identifies the browser session that owns the cart,
// assigning a fresh UUID cookie on first contact.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractToken pulls the opaque bearer token from the access_token cookie or
// the Authorization header. The storefront never inspects its contents.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// BearerMiddleware attaches the bearer token, when present, to the request
// context. Validity is the auth service's concern, not ours.
func BearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := ExtractToken(r); token != "" {
			r = r.WithContext(context.WithValue(r.Context(), tokenContextKey, token))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireToken rejects requests that carry no bearer token.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Token(r.Context()) == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionID returns the storefront session ID from the request context.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// Token returns the opaque bearer token, or "" when the request is
// anonymous.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
