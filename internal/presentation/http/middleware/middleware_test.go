package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/checkout"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/infrastructure/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// withTerminal stands in for AuthMiddleware
func withTerminal(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(TerminalIDKey, id)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	registry := terminal.NewRegistry(terminal.Config{Checkout: checkout.DefaultSessionConfig()})
	term := registry.Open(&entity.SessionContext{BaseURL: "http://erp.local", Token: "tok", Email: "cashier@example.com"})
	token, err := jwtManager.GenerateAccessToken(term.ID, term.Email)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwtManager, registry), func(c *gin.Context) {
		v, _ := c.Get(TerminalKey)
		got := v.(*terminal.Terminal)
		c.JSON(http.StatusOK, gin.H{"terminal_id": GetTerminalID(c).String(), "same": got == term})
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Authorization header is required"},
		{"wrong scheme", "Token " + token, "Invalid authorization header format"},
		{"garbage token", "Bearer not-a-jwt", "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.message, decodeBody(t, w)["message"])
		})
	}

	w := call("Bearer " + token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, term.ID.String(), body["terminal_id"])
	assert.Equal(t, true, body["same"])

	registry.Close(term.ID)
	w = call("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Terminal session has ended, please log in again", decodeBody(t, w)["message"])
}

func TestTerminalRateLimiter(t *testing.T) {
	rl := NewTerminalRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	t.Cleanup(rl.Stop)

	busy, quiet := uuid.New(), uuid.New()
	router := gin.New()
	router.GET("/busy", withTerminal(busy), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/quiet", withTerminal(quiet), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/anon", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, get("/busy").Code)
	assert.Equal(t, http.StatusOK, get("/busy").Code)
	limited := get("/busy")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("/quiet").Code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get("/anon").Code)
	}
	assert.Equal(t, 2, rl.Stats()["active_terminals"])
}

func TestTerminalRateLimiter_CleanupDropsIdleEntries(t *testing.T) {
	rl := NewTerminalRateLimiter(RateLimiterConfig{EntryTTL: time.Minute})
	t.Cleanup(rl.Stop)

	rl.getLimiter(uuid.New())
	rl.cleanup(time.Now())
	assert.Equal(t, 1, rl.Stats()["active_terminals"])

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.Stats()["active_terminals"])
}

type idempotencyFixture struct {
	router *gin.Engine
	hits   atomic.Int32
	fail   atomic.Bool
}

func newIdempotencyFixture(required bool) *idempotencyFixture {
	f := &idempotencyFixture{}
	cfg := IdempotencyConfig{Repo: repository.NewMemoryIdempotencyRepository()}
	mw := Idempotency(cfg)
	if required {
		mw = IdempotencyRequired(cfg)
	}

	f.router = gin.New()
	id := uuid.New()
	handler := func(c *gin.Context) {
		n := f.hits.Add(1)
		if f.fail.Load() {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "backend down"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "invoice": n})
	}
	f.router.POST("/submit", withTerminal(id), mw, handler)
	f.router.GET("/submit", withTerminal(id), mw, handler)
	return f
}

func (f *idempotencyFixture) post(key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequired_MissingKey(t *testing.T) {
	f := newIdempotencyFixture(true)

	w := f.post("", `{"invoice_type":"tax"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	f := newIdempotencyFixture(true)

	first := f.post("key-1", `{"invoice_type":"tax"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))

	second := f.post("key-1", `{"invoice_type":"tax"}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), f.hits.Load())

	other := f.post("key-2", `{"invoice_type":"tax"}`)
	assert.Equal(t, http.StatusCreated, other.Code)
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestIdempotency_KeyReusedForDifferentBody(t *testing.T) {
	f := newIdempotencyFixture(true)

	require.Equal(t, http.StatusCreated, f.post("key-1", `{"invoice_type":"tax"}`).Code)
	w := f.post("key-1", `{"invoice_type":"abt"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(1), f.hits.Load())
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	f := newIdempotencyFixture(true)

	f.fail.Store(true)
	assert.Equal(t, http.StatusBadGateway, f.post("key-1", `{}`).Code)

	f.fail.Store(false)
	w := f.post("key-1", `{}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestIdempotency_OptionalPassesThrough(t *testing.T) {
	f := newIdempotencyFixture(false)

	assert.Equal(t, http.StatusCreated, f.post("", `{}`).Code)
	assert.Equal(t, http.StatusCreated, f.post("", `{}`).Code)
	assert.Equal(t, int32(2), f.hits.Load())

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submit", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(3), f.hits.Load())
}
