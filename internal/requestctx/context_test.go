package requestctx

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

type fakePrincipal struct {
	Subject string
}

func TestRequestIDDefaultsToSentinel(t *testing.T) {
	if got := RequestID(context.Background()); got != Unresolved {
		t.Errorf("expected %q, got %q", Unresolved, got)
	}
	if got := PrincipalID(context.Background()); got != Unresolved {
		t.Errorf("expected %q, got %q", Unresolved, got)
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
	if got := PrincipalID(ctx); got != Unresolved {
		t.Errorf("principal should start unresolved, got %q", got)
	}
}

func TestSetPrincipalVisibleThroughChildContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	// Middleware downstream derives child contexts; the principal set there
	// must be visible to the outer logging middleware holding ctx.
	child := context.WithValue(ctx, struct{}{}, "noise")
	SetPrincipal(child, "alice", &fakePrincipal{Subject: "alice"})

	if got := PrincipalID(ctx); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
	p, ok := Principal[*fakePrincipal](ctx)
	if !ok {
		t.Fatal("expected typed principal")
	}
	if p.Subject != "alice" {
		t.Errorf("expected subject alice, got %q", p.Subject)
	}
}

func TestPrincipalWrongType(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	SetPrincipal(ctx, "alice", &fakePrincipal{Subject: "alice"})
	if _, ok := Principal[string](ctx); ok {
		t.Error("expected type mismatch to report not-ok")
	}
}

func TestConcurrentRequestsAreIsolated(t *testing.T) {
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("req-%d", i)
			sub := fmt.Sprintf("user-%d", i)
			ctx := WithRequestID(context.Background(), id)
			SetPrincipal(ctx, sub, nil)
			if got := RequestID(ctx); got != id {
				t.Errorf("request id leaked: expected %q, got %q", id, got)
			}
			if got := PrincipalID(ctx); got != sub {
				t.Errorf("principal id leaked: expected %q, got %q", sub, got)
			}
		}(i)
	}
	wg.Wait()
}
