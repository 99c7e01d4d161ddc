package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/emirhankose/dizifilm-api/internal/config"
)

func cacheContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(strings.SplitN(target, "?", 2)[0])
	return c
}

func TestCacheKeyStableAcrossRequests(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheContext("/v1/films?q=drama"))
	b := cacheKeyFrom(cfg, cacheContext("/v1/films?q=drama"))
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "cache:"))
}

func TestCacheKeyVariesWithQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheContext("/v1/films?q=drama"))
	b := cacheKeyFrom(cfg, cacheContext("/v1/films?q=comedy"))
	assert.NotEqual(t, a, b)
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}

	a := cacheKeyFrom(cfg, cacheContext("/v1/films?q=drama"))
	b := cacheKeyFrom(cfg, cacheContext("/v1/films?q=comedy"))
	assert.Equal(t, a, b)
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error { called = true; return c.String(http.StatusOK, "fresh") })

	assert.NoError(t, h(cacheContext("/v1/films")))
	assert.True(t, called)
}
