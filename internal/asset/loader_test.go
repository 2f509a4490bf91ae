package asset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetch_EmptyURL(t *testing.T) {
	l := NewLoader(time.Second, zap.NewNop())

	_, err := l.Fetch(context.Background(), "", 40, 40)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(time.Second, zap.NewNop())
	_, err := l.Fetch(context.Background(), srv.URL+"/logo.png", 40, 40)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for 404, got %v", err)
	}
}

func TestFetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := NewLoader(time.Second, zap.NewNop())
	_, err := l.Fetch(context.Background(), srv.URL+"/logo.png", 40, 40)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty body, got %v", err)
	}
}

func TestFetch_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	l := NewLoader(time.Second, zap.NewNop())
	_, err := l.Fetch(context.Background(), srv.URL+"/logo.png", 40, 40)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for undecodable bytes, got %v", err)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	l := NewLoader(time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Fetch(ctx, "http://example.com/logo.png", 40, 40)
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	// Cancellation is not an asset failure — callers distinguish the two.
	if errors.Is(err, ErrUnavailable) {
		t.Error("cancellation should not be reported as ErrUnavailable")
	}
}

func TestFetch_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	l := NewLoader(50*time.Millisecond, zap.NewNop())
	_, err := l.Fetch(context.Background(), srv.URL+"/hero.jpg", 170, 70)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on timeout, got %v", err)
	}
}
