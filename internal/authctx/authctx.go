// Package authctx exposes the verified caller identity that the auth
// middleware stashes on the request context. Handlers that only need
// "who is calling" read it from here instead of threading the full
// middleware user value around.
package authctx

import "context"

type uidKey struct{}
type claimsKey struct{}

func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidKey{}, uid)
}

// UID returns the caller uid; ok is false on unauthenticated contexts.
func UID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(uidKey{}).(string)
	return uid, ok && uid != ""
}

func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Claims returns the raw Firebase custom claims, nil-safe for the
// role predicates in the middleware package.
func Claims(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsKey{}).(map[string]any)
	return claims, ok
}
