package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	cfg := DefaultConfig()
	cfg.SkipPaths = []string{"/health/live"}
	e.Use(Middleware(cfg))

	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/cart", ok)
	e.POST("/cart/items", ok)
	e.POST("/health/live", ok)
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func issuedToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			assert.Equal(t, token, ck.Value)
			return token
		}
	}
	t.Fatal("XSRF-TOKEN cookie not set")
	return ""
}

func post(token, header, origin string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	}
	if header != "" {
		req.Header.Set("X-CSRF-Token", header)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestMiddleware(t *testing.T) {
	e := newServer()
	token := issuedToken(t, e)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"matching token", post(token, token, "http://example.com"), http.StatusNoContent},
		{"missing header", post(token, "", "http://example.com"), http.StatusForbidden},
		{"wrong header", post(token, token+"x", "http://example.com"), http.StatusForbidden},
		{"no cookie", post("", token, "http://example.com"), http.StatusForbidden},
		{"foreign origin", post(token, token, "http://evil.test"), http.StatusForbidden},
		{"no origin", post(token, token, ""), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(e, tt.req).Code)
		})
	}
}

func TestMiddleware_Skips(t *testing.T) {
	e := newServer()

	assert.Equal(t, http.StatusNoContent, serve(e, httptest.NewRequest(http.MethodPost, "/health/live", nil)).Code)

	req := post("", "", "")
	req.Header.Set(echo.HeaderAuthorization, "Bearer abc")
	assert.Equal(t, http.StatusNoContent, serve(e, req).Code)
}
