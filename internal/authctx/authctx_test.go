package authctx

import (
	"context"
	"testing"
)

func TestUIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := UID(ctx); ok {
		t.Fatal("UID on empty context should not be ok")
	}

	ctx = WithUID(ctx, "u1")
	uid, ok := UID(ctx)
	if !ok || uid != "u1" {
		t.Fatalf("UID = %q, %v", uid, ok)
	}

	// empty uid reads as unauthenticated
	if _, ok := UID(WithUID(context.Background(), "")); ok {
		t.Fatal("empty uid should not be ok")
	}
}

func TestClaimsRoundTrip(t *testing.T) {
	ctx := WithClaims(context.Background(), map[string]any{"educator": true})
	claims, ok := Claims(ctx)
	if !ok {
		t.Fatal("Claims should be ok")
	}
	if b, _ := claims["educator"].(bool); !b {
		t.Errorf("claims = %v", claims)
	}

	if _, ok := Claims(context.Background()); ok {
		t.Fatal("Claims on empty context should not be ok")
	}
}
