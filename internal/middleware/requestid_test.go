package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestRequestID_EchoesCallerID(t *testing.T) {
	router := statRoute(RequestID())

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	req.Header.Set(RequestIDHeader, "dashboard-trace-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "dashboard-trace-42" {
		t.Errorf("%s = %q, want the caller's ID echoed", RequestIDHeader, got)
	}
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	router := statRoute(RequestID())

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got == "" {
		t.Errorf("expected a generated %s on the response", RequestIDHeader)
	}
}

func TestRequestID_DistinctPerRequest(t *testing.T) {
	router := statRoute(RequestID())

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		ids[w.Header().Get(RequestIDHeader)] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 distinct generated IDs, got %d", len(ids))
	}
}
