package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/aerial-tour-booking/internal/config"
	"github.com/iliyamo/aerial-tour-booking/internal/metrics"
	"github.com/iliyamo/aerial-tour-booking/internal/utils"
)

const secret = "test-secret"

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func identityServer() *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"sub": c.Get(CtxExternalID), "email": c.Get(CtxEmail)})
	}, IdentityAuth(secret))
	return e
}

func TestIdentityAuthAcceptsSessionToken(t *testing.T) {
	tok, err := utils.NewSessionToken(secret, "google-7", "seven@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := serve(identityServer(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sub":"google-7","email":"seven@example.com"}`, rec.Body.String())
}

func TestIdentityAuthRejects(t *testing.T) {
	wrongKey, err := utils.NewSessionToken("other-secret", "google-7", "seven@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := utils.NewSessionToken(secret, "google-7", "seven@example.com", -time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"garbage":       "Bearer not.a.jwt",
		"wrong key":     "Bearer " + wrongKey.Token,
		"expired token": "Bearer " + expired.Token,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			assert.Equal(t, http.StatusUnauthorized, serve(identityServer(), req).Code)
		})
	}
}

func adminServer(hash string) *echo.Echo {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(CtxAdminUser).(string))
	}, AdminAuth("ops", hash))
	return e
}

func TestAdminAuth(t *testing.T) {
	hash, err := utils.HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("ops", "correct horse")
		rec := serve(adminServer(hash), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ops", rec.Body.String())
	})
	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("ops", "battery staple")
		assert.Equal(t, http.StatusUnauthorized, serve(adminServer(hash), req).Code)
	})
	t.Run("wrong user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("root", "correct horse")
		assert.Equal(t, http.StatusUnauthorized, serve(adminServer(hash), req).Code)
	})
	t.Run("not configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("ops", "correct horse")
		assert.Equal(t, http.StatusForbidden, serve(adminServer(""), req).Code)
	})
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tours/abc/bookings", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/tours/:id/bookings")
	c.Set(CtxExternalID, "google-1")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	for strategy, want := range map[string]string{
		"ip":            "rl:ip:10.0.0.1",
		"user":          "rl:user:google-1",
		"route":         "rl:route:POST /v1/tours/:id/bookings",
		"ip_user_route": "rl:ip:10.0.0.1:user:google-1:route:POST /v1/tours/:id/bookings",
	} {
		cfg.KeyStrategy = strategy
		assert.Equal(t, want, rateKey(cfg, c), strategy)
	}

	anon := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", callerID(anon))
	anon.Set(CtxAdminUser, "ops")
	assert.Equal(t, "admin:ops", callerID(anon))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"total":5}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"total":5}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCacheKeyDistinguishesConcreteTours(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(path string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		c.SetPath("/v1/tours/:id")
		return cacheKey(cfg, c)
	}
	assert.NotEqual(t, key("/v1/tours/a"), key("/v1/tours/b"))
	assert.Equal(t, key("/v1/tours/a"), key("/v1/tours/a"))
	assert.True(t, strings.HasPrefix(key("/v1/tours/a"), "cache:"))
}

func TestRedisMiddlewaresPassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	var p *CachePurger
	assert.NotPanics(t, func() { p.Purge(t.Context()) })
	assert.Nil(t, NewCachePurger(config.CacheConfig{Enabled: true}, nil))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewManager()
	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/v1/tours/:id", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })

	serve(e, httptest.NewRequest(http.MethodGet, "/v1/tours/x", nil))
	serve(e, httptest.NewRequest(http.MethodGet, "/v1/tours/y", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPCounter(http.MethodGet, "/v1/tours/:id", http.StatusNotFound)))
}
