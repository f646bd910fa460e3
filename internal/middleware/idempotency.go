package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aic_backend/internal/auth"
	"aic_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Provisional lock held while the first request is still being handled.
const provisionalLockTTL = 60 * time.Second

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a mutating request
// carries an Idempotency-Key it has seen before. Requests without the
// header pass through untouched. The key is scoped to method, route and
// the caller: the bearer token is parsed here because this middleware runs
// ahead of AuthMiddleware, so the context user is not populated yet.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}
		bhash := bodyHash(body)

		redisKey := fmt.Sprintf("idemp:%s:%s:%s:%s",
			c.Request.Method, c.FullPath(), callerScope(c), key)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		entry := idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: time.Now().UTC()}
		locked, err := provisionalSet(ctx, rdb, redisKey, entry)
		if err != nil {
			// A broken idempotency store must not take the API down.
			logger.Warn("idempotency store unavailable", "error", err)
			c.Next()
			return
		}

		if !locked {
			cur, err := loadEntry(ctx, rdb, redisKey)
			if err != nil {
				logger.Warn("failed to load idempotency entry", "key", redisKey, "error", err)
				c.Next()
				return
			}
			if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Idempotency-Key reused with a different body",
				})
				return
			}
			if !cur.InProgress && cur.Code != 0 {
				c.Data(cur.Code, "application/json", cur.Body)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "request is already in progress",
			})
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		final := idempEntry{
			Code:       rec.Status(),
			Body:       rec.buf.Bytes(),
			BodySHA256: bhash,
			CreatedAt:  time.Now().UTC(),
		}
		if err := saveFinal(context.Background(), rdb, redisKey, final, ttl); err != nil {
			logger.Warn("failed to persist idempotency entry", "key", redisKey, "error", err)
		}
	}
}

// callerScope identifies the caller for key isolation. Authenticated
// requests get their user id; anything else falls back to a digest of the
// credential so two strangers reusing the same key never share an entry.
func callerScope(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "anon"
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if claims, err := auth.ParseToken(tokenStr); err == nil {
		return claims.UserID
	}
	sum := sha256.Sum256([]byte(header))
	return "cred-" + hex.EncodeToString(sum[:8])
}

func bodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry idempEntry) (bool, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, raw, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempEntry, error) {
	var entry idempEntry
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return entry, err
	}
	err = json.Unmarshal(raw, &entry)
	return entry, err
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, entry idempEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, raw, ttl).Err()
}
