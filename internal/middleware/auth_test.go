package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// statRoute wires a middleware chain in front of a stand-in stat endpoint.
func statRoute(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/brands/:id/brochure", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestAPIKeyAuth_ValidHeader(t *testing.T) {
	router := statRoute(APIKeyAuth([]string{"dashboard-key", "partner-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	req.Header.Set("X-API-Key", "dashboard-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_ValidQueryParam(t *testing.T) {
	// Download links in dashboard emails carry the key as a query param.
	router := statRoute(APIKeyAuth([]string{"dashboard-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure?api_key=dashboard-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Missing(t *testing.T) {
	router := statRoute(APIKeyAuth([]string{"dashboard-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Invalid(t *testing.T) {
	router := statRoute(APIKeyAuth([]string{"dashboard-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	req.Header.Set("X-API-Key", "revoked-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAdminKeyAuth_Valid(t *testing.T) {
	router := statRoute(AdminKeyAuth([]string{"ops-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	req.Header.Set("X-API-Key", "ops-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAdminKeyAuth_DashboardKeyRejected(t *testing.T) {
	// A valid dashboard key is not an admin key. Admin routes answer 403,
	// not 401, so the caller knows the key was recognized but outranked.
	router := statRoute(AdminKeyAuth([]string{"ops-key"}))

	req := httptest.NewRequest("GET", "/brands/brand-1/brochure", nil)
	req.Header.Set("X-API-Key", "dashboard-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
