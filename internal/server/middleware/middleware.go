package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
)

// RequestSizeLimit rejects post bodies larger than maxBytes with 413 Payload Too Large.
//
// Requests that declare a larger Content-Length are rejected before the handler runs.
// Other bodies are wrapped in a MaxBytesReader so the handler's JSON decoder fails once the
// limit is passed (handlers map *http.MaxBytesError to the same 413 response).
//
// Every response carries an X-Max-Request-Size header with the configured limit.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				logger.ContextWithLogAttrs(r.Context(),
					slog.Int64("content_length", r.ContentLength),
				)
				err := blog.NewRequestTooLargeError(
					fmt.Sprintf("request body (%d bytes) exceeds the %d byte limit", r.ContentLength, maxBytes),
				)
				blog.RespondWithErrorResponse(w, r, err)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the standard browser hardening headers. HSTS is only sent from prod and staging.
func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if environment == "prod" || environment == "staging" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdleTimeout is how long a client's bucket is kept after its last request
const clientIdleTimeout = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client address
type clientLimiters struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastPrune) > clientIdleTimeout {
		for k, cl := range c.clients {
			if now.Sub(cl.lastSeen) > clientIdleTimeout {
				delete(c.clients, k)
			}
		}
		c.lastPrune = now
	}

	cl, ok := c.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// clientKey is the client ip. RemoteAddr has already been rewritten by chi's RealIP middleware.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit gives each client address its own token bucket.
// requestsPerSecond <= 0 disables the limit.
//
// Rejected requests get a 429 with a Retry-After header (whole seconds).
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiters := &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   int(burst),
		now:     time.Now,
	}
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(requestsPerSecond))))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			if !limiters.get(client).Allow() {
				logger.ContextRequestLogger(r.Context()).Warn("rate limit exceeded",
					slog.String("component", "RateLimit"),
					slog.String("client", client),
				)
				logger.ContextWithLogAttrs(r.Context(),
					slog.String("client", client),
					slog.Bool("rate_limited", true),
				)

				w.Header().Set("Retry-After", retryAfter)
				err := blog.NewRateLimitError(
					fmt.Sprintf("more than %d requests per second from %s, try again later", requestsPerSecond, client))
				blog.RespondWithErrorResponse(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
