package context

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestTeamIDRoundTrip(t *testing.T) {
	ctx := WithTeamID(context.Background(), "10")
	if got := TeamIDFromContext(ctx); got != "10" {
		t.Fatalf("expected 10, got %q", got)
	}
}

func TestMemberIDRoundTrip(t *testing.T) {
	ctx := WithMemberID(context.Background(), "42")
	if got := MemberIDFromContext(ctx); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
}

func TestWithEmptyValueIsNoop(t *testing.T) {
	base := context.Background()
	if ctx := WithTeamID(base, ""); ctx != base {
		t.Fatalf("empty team id must not allocate a new context")
	}
	if ctx := WithMemberID(base, ""); ctx != base {
		t.Fatalf("empty member id must not allocate a new context")
	}
	if ctx := WithRequestID(base, ""); ctx != base {
		t.Fatalf("empty request id must not allocate a new context")
	}
}
