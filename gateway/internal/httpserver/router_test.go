package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/middleware/csrf"
	"github.com/Skotchmaster/medimarket/pkg/tokens"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtSecret = []byte("gateway-test-secret")

type seen struct {
	Upstream string `json:"upstream"`
	Path     string `json:"path"`
	Query    string `json:"query"`
	Auth     string `json:"auth"`
}

func upstream(t *testing.T, name string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seen{
			Upstream: name,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			Auth:     r.Header.Get("Authorization"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newGateway(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		CatalogURL:    upstream(t, "catalog"),
		SchedulingURL: upstream(t, "scheduling"),
		CartURL:       upstream(t, "cart"),
		OrderURL:      upstream(t, "order"),
		JWTSecret:     jwtSecret,
		CSRFConfig:    csrf.DefaultConfig(),
	}))
	return e
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(jwtSecret, uuid.NewString(), "user", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, e *echo.Echo, method, target, auth string) (*httptest.ResponseRecorder, seen) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(""))
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var s seen
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	}
	return rec, s
}

func TestRouting(t *testing.T) {
	e := newGateway(t)
	auth := bearer(t)

	tests := []struct {
		method, target, auth string
		upstream, path       string
	}{
		{http.MethodGet, "/api/v1/catalog/doctors?specialization=cardiology", "", "catalog", "/catalog/doctors"},
		{http.MethodGet, "/api/v1/availability/abc?date=2025-05-01", "", "scheduling", "/availability/abc"},
		{http.MethodPost, "/api/v1/appointments", auth, "scheduling", "/appointments"},
		{http.MethodPost, "/api/v1/appointments/x/cancel", auth, "scheduling", "/appointments/x/cancel"},
		{http.MethodGet, "/api/v1/cart", auth, "cart", "/cart"},
		{http.MethodPut, "/api/v1/cart/items/x", auth, "cart", "/cart/items/x"},
		{http.MethodPost, "/api/v1/orders", auth, "order", "/orders"},
		{http.MethodPatch, "/api/v1/orders/x/status", auth, "order", "/orders/x/status"},
		{http.MethodPost, "/api/v1/catalog/doctors/x/reviews", auth, "catalog", "/catalog/doctors/x/reviews"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec, s := do(t, e, tt.method, tt.target, tt.auth)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.upstream, s.Upstream)
			assert.Equal(t, tt.path, s.Path)
			assert.Equal(t, tt.auth, s.Auth)
		})
	}
}

func TestRouting_QueryPreserved(t *testing.T) {
	e := newGateway(t)
	_, s := do(t, e, http.MethodGet, "/api/v1/catalog/search?q=ibu&kind=medicines", "")
	assert.Equal(t, "q=ibu&kind=medicines", s.Query)
}

func TestRouting_RequiresToken(t *testing.T) {
	e := newGateway(t)

	for _, target := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/appointments"} {
		rec, _ := do(t, e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec, _ := do(t, e, http.MethodPost, "/api/v1/catalog/medicines", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouting_CookieAuthNeedsCSRF(t *testing.T) {
	e := newGateway(t)
	tok := strings.TrimPrefix(bearer(t), "Bearer ")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc123"})
	req.Header.Set("X-CSRF-Token", "abc123")
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	dead := srv.URL
	srv.Close()

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		CatalogURL: dead, SchedulingURL: dead, CartURL: dead, OrderURL: dead,
		JWTSecret: jwtSecret, CSRFConfig: csrf.DefaultConfig(),
	}))

	rec, _ := do(t, e, http.MethodGet, "/api/v1/catalog/doctors", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"upstream unavailable"}`, rec.Body.String())
}
