package middleware

import (
	"context"
	"net/http"
	"strings"

	"pawclub/backend/internal/authctx"

	"firebase.google.com/go/v4/auth"
)

type ctxKey string

const authUserKey ctxKey = "authUser"

type AuthUser struct {
	UID    string
	Email  string
	Claims map[string]any
}

func WithAuth(authClient *auth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
				http.Error(w, "missing Authorization: Bearer <token>", http.StatusUnauthorized)
				return
			}
			idToken := strings.TrimSpace(h[len("Bearer "):])

			tok, err := authClient.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			au := &AuthUser{
				UID:    tok.UID,
				Claims: tok.Claims,
			}
			if v, ok := tok.Claims["email"].(string); ok {
				au.Email = v
			}

			ctx := context.WithValue(r.Context(), authUserKey, au)
			ctx = authctx.WithUID(ctx, au.UID)
			ctx = authctx.WithClaims(ctx, au.Claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	v := ctx.Value(authUserKey)
	if v == nil {
		return nil, false
	}
	au, ok := v.(*AuthUser)
	return au, ok
}

// IsAdmin checks if the user has admin rights in their claims
func IsAdmin(claims map[string]any) bool {
	if claims == nil {
		return false
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return true
	}
	if role, ok := claims["role"].(string); ok && role == "admin" {
		return true
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if str, ok := r.(string); ok && str == "admin" {
				return true
			}
		}
	}
	return false
}

// IsEducator checks if the user carries the educator claim
// (set via cmd/set-claims or on educator onboarding)
func IsEducator(claims map[string]any) bool {
	if claims == nil {
		return false
	}
	if b, ok := claims["educator"].(bool); ok && b {
		return true
	}
	if role, ok := claims["role"].(string); ok && role == "educator" {
		return true
	}
	if accountType, ok := claims["accountType"].(string); ok && accountType == "educator" {
		return true
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if str, ok := r.(string); ok && str == "educator" {
				return true
			}
		}
	}
	return false
}
