// Package security provides input validation, sanitization and per-IP rate
// limiting for the analysis API.
package security

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	// MinDocumentLength rejects documents too short to score meaningfully.
	MinDocumentLength int `json:"min_document_length"`
	// MaxDocumentLength bounds memory use per request.
	MaxDocumentLength int           `json:"max_document_length"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MinDocumentLength: 50,
		MaxDocumentLength: 500_000,
		MaxRequestsPerMin: 60,
		TrustedProxies:    []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:    120 * time.Second,
	}
}

// SecurityMiddleware bundles validation and rate limiting state.
type SecurityMiddleware struct {
	config     SecurityConfig
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter

	// OnIPBlock fires whenever a request is rejected by the per-IP limiter,
	// e.g. for metrics.
	OnIPBlock func()
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// ValidateDocument checks a pitch document before it enters the pipeline.
func (sm *SecurityMiddleware) ValidateDocument(input string) error {
	if len(input) < sm.config.MinDocumentLength {
		return fmt.Errorf("document shorter than minimum of %d characters", sm.config.MinDocumentLength)
	}
	if len(input) > sm.config.MaxDocumentLength {
		return fmt.Errorf("document exceeds maximum length of %d characters", sm.config.MaxDocumentLength)
	}
	if strings.Contains(input, "\x00") {
		return fmt.Errorf("document contains invalid characters")
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("document contains invalid UTF-8 encoding")
	}
	return nil
}

var (
	scriptPattern  = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	spacePattern   = regexp.MustCompile(`[ \t]+`)
)

// SanitizeDocument strips markup from a document while preserving its text.
// Newlines survive so metric extraction patterns keep their line context.
func (sm *SecurityMiddleware) SanitizeDocument(input string) string {
	input = strings.TrimSpace(input)
	input = scriptPattern.ReplaceAllString(input, "")
	input = htmlTagPattern.ReplaceAllString(input, "")
	input = spacePattern.ReplaceAllString(input, " ")

	htmlEntities := map[string]string{
		"&lt;":   "<",
		"&gt;":   ">",
		"&amp;":  "&",
		"&quot;": "\"",
		"&#x27;": "'",
		"&#39;":  "'",
	}
	for entity, char := range htmlEntities {
		input = strings.ReplaceAll(input, entity, char)
	}
	return input
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	clientIP := c.ClientIP()

	sm.mu.Lock()
	limiter, exists := sm.ipLimiters[clientIP]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		sm.ipLimiters[clientIP] = limiter
	}
	sm.mu.Unlock()

	if !limiter.Allow() {
		if sm.OnIPBlock != nil {
			sm.OnIPBlock()
		}
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded for IP",
			"retry_after": "60",
		})
		c.Abort()
		return
	}

	c.Next()
}

// TimeoutMiddleware aborts requests exceeding the configured deadline via the
// request context.
func (sm *SecurityMiddleware) TimeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm.config.RequestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
