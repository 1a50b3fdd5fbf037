package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	log "github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyReplayedHeader marks a response served from the store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

type idempotency struct {
	cfg      IdempotencyConfig
	required bool
	// keys whose first request has not finished yet
	inflight sync.Map
}

// Idempotency replays the stored response when a POST carries an
// Idempotency-Key that was already answered. Requests without a key pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return newIdempotency(config, false).handle
}

// IdempotencyRequired is a stricter version that rejects POSTs without a key
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return newIdempotency(config, true).handle
}

func newIdempotency(config IdempotencyConfig, required bool) *idempotency {
	if config.TTL <= 0 {
		config.TTL = IdempotencyKeyTTL
	}
	return &idempotency{cfg: config, required: required}
}

func (m *idempotency) handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Next()
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		if m.required {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}
		c.Next()
		return
	}

	terminalID := GetTerminalID(c)
	if terminalID == uuid.Nil {
		if m.required {
			response.Unauthorized(c, "Terminal not authenticated")
			c.Abort()
			return
		}
		c.Next()
		return
	}

	lock := terminalID.String() + ":" + key
	if _, busy := m.inflight.LoadOrStore(lock, struct{}{}); busy {
		response.Error(c, apperror.NewConflictError("A request with this Idempotency-Key is still being processed"))
		c.Abort()
		return
	}
	defer m.inflight.Delete(lock)

	endpoint := c.Request.Method + " " + c.FullPath()
	hash, err := requestHash(c, endpoint)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		c.Abort()
		return
	}

	existing, err := m.cfg.Repo.GetByKey(c.Request.Context(), key, terminalID)
	if err != nil {
		log.WithFields(log.Fields{"terminal_id": terminalID.String(), "error": err.Error()}).Error("idempotency lookup failed")
		if m.required {
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}
		c.Next()
		return
	}

	if existing != nil && !existing.IsExpired() {
		if existing.Endpoint != endpoint || (existing.RequestHash != "" && existing.RequestHash != hash) {
			response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
			c.Abort()
			return
		}
		c.Header(IdempotencyReplayedHeader, "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
		c.Abort()
		return
	}

	blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
	c.Writer = blw

	c.Next()

	// Failures are not stored so the client can retry with the same key
	status := c.Writer.Status()
	if status < 200 || status >= 300 {
		return
	}

	ikey := &entity.IdempotencyKey{
		Key:          key,
		TerminalID:   terminalID,
		Endpoint:     endpoint,
		RequestHash:  hash,
		ResponseCode: status,
		ResponseBody: blw.body.String(),
		ExpiresAt:    time.Now().Add(m.cfg.TTL),
	}
	if err := m.cfg.Repo.Create(c.Request.Context(), ikey); err != nil {
		log.WithFields(log.Fields{"terminal_id": terminalID.String(), "endpoint": endpoint, "error": err.Error()}).Error("failed to store idempotency key")
	}
}

// requestHash fingerprints the endpoint and body, then restores the body for the handler
func requestHash(c *gin.Context, endpoint string) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	h := sha256.New()
	h.Write([]byte(endpoint))
	h.Write([]byte{0})
	h.Write([]byte(c.Request.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}
