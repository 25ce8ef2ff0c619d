package auth

import (
	"context"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	j := New("secret")
	tok, err := j.Sign(Identity{UserID: "u1", DisplayName: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	id, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "u1" || id.DisplayName != "alice" {
		t.Errorf("identity = %+v, want u1/alice", id)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, _ := New("secret-a").Sign(Identity{UserID: "u1"}, time.Hour)
	if _, err := New("secret-b").Verify(tok); err == nil {
		t.Error("Verify with wrong secret should fail")
	}
}

func TestVerifyExpired(t *testing.T) {
	j := New("secret")
	tok, _ := j.Sign(Identity{UserID: "u1"}, -time.Minute)
	if _, err := j.Verify(tok); err == nil {
		t.Error("Verify of expired token should fail")
	}
}

func TestSignEmptyUID(t *testing.T) {
	if _, err := New("secret").Sign(Identity{}, time.Hour); err == nil {
		t.Error("Sign with empty uid should fail")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if UserID(ctx) != "anon" {
		t.Errorf("UserID(empty) = %q, want anon", UserID(ctx))
	}

	ctx = WithIdentity(ctx, Identity{UserID: "u1", DisplayName: "alice"})
	if UserID(ctx) != "u1" {
		t.Errorf("UserID = %q, want u1", UserID(ctx))
	}
	if id, ok := From(ctx); !ok || id.DisplayName != "alice" {
		t.Errorf("From = (%+v, %v), want alice identity", id, ok)
	}
}
