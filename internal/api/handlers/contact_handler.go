package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/providers"
	"github.com/hal-directory/backend/internal/infrastructure/observability"
)

const (
	contactRateLimit   = 5
	contactRateWindow  = time.Hour
	contactDedupWindow = 24 * time.Hour
)

const msgContactSent = "Message sent successfully"

// ContactService defines the contact operations used by the handler
type ContactService interface {
	Submit(ctx context.Context, input services.ContactInput) (*entities.ContactMessage, error)
}

// ContactHandler accepts contact form submissions. Submissions are rate
// limited per client IP, and an identical message from the same IP is
// acknowledged without being stored again.
type ContactHandler struct {
	service ContactService
	cache   providers.CacheProvider
	local   *localRateLimiter
	deduper *localDeduper
}

// NewContactHandler creates a new contact handler. Without a cache the
// limits are kept in process.
func NewContactHandler(service ContactService, cache providers.CacheProvider) *ContactHandler {
	return &ContactHandler{
		service: service,
		cache:   cache,
		local:   newLocalRateLimiter(),
		deduper: newLocalDeduper(),
	}
}

// SubmitContact handles POST /api/contact
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := input.Validate(); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ip := clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), "contact:rate:"+ip)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "Too many messages, please try again later")
		return
	}

	dupKey := "contact:dup:" + contactFingerprint(input, ip)
	if h.isDuplicate(r.Context(), dupKey) {
		respondWithJSON(w, http.StatusOK, map[string]string{"message": msgContactSent})
		return
	}

	if _, err := h.service.Submit(r.Context(), input); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	// a submission only counts as a duplicate once it is stored
	h.rememberSubmission(r.Context(), dupKey)

	respondWithJSON(w, http.StatusOK, map[string]string{"message": msgContactSent})
}

func (h *ContactHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, contactRateLimit, contactRateWindow)
	}

	count, err := h.cache.Incr(ctx, key, contactRateWindow)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Rate limit cache unavailable, using local limiter")
		return h.local.allow(key, contactRateLimit, contactRateWindow)
	}
	if count > contactRateLimit {
		return false, contactRateWindow
	}
	return true, contactRateWindow
}

func (h *ContactHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.deduper.seen(key)
	}

	exists, err := h.cache.Exists(ctx, key)
	if err != nil {
		return h.deduper.seen(key)
	}
	return exists
}

func (h *ContactHandler) rememberSubmission(ctx context.Context, key string) {
	if h.cache == nil {
		h.deduper.remember(key, contactDedupWindow)
		return
	}

	if err := h.cache.Set(ctx, key, []byte("1"), contactDedupWindow); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Dedup cache unavailable, remembering submission locally")
		h.deduper.remember(key, contactDedupWindow)
	}
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, st := range l.states {
		if now.After(st.resetAt) {
			delete(l.states, k)
		}
	}

	state, ok := l.states[key]
	if !ok {
		state = &localRateState{resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := state.resetAt.Sub(now)
		if retryAfter <= 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[key]
	return ok && time.Now().Before(expiresAt)
}

func (d *localDeduper) remember(key string, window time.Duration) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expiresAt := range d.entries {
		if now.After(expiresAt) {
			delete(d.entries, k)
		}
	}
	d.entries[key] = now.Add(window)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func contactFingerprint(input services.ContactInput, ip string) string {
	normalized := []string{
		normalizeText(input.Name),
		strings.ToLower(strings.TrimSpace(input.Email)),
		normalizeText(input.Message),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeText(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
