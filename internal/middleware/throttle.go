package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	authpkg "github.com/vr-ski/TransactionManager/pkg/auth"
)

// requestRecord tracks the number of requests and the window start time
type requestRecord struct {
	count       int
	windowStart time.Time
	mu          sync.Mutex
}

// Throttle limits authenticated users to maxRequests per period
type Throttle struct {
	maxRequests int
	period      time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	records map[uint64]*requestRecord
}

func NewThrottle(maxRequests int, period time.Duration) *Throttle {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	return &Throttle{
		maxRequests: maxRequests,
		period:      period,
		now:         time.Now,
		records:     make(map[uint64]*requestRecord),
	}
}

// Run drops idle records every interval until ctx is done
func (t *Throttle) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.cleanup()
		}
	}
}

func (t *Throttle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.period)
	for userID, record := range t.records {
		record.mu.Lock()
		if record.windowStart.Before(cutoff) {
			delete(t.records, userID)
		}
		record.mu.Unlock()
	}
}

func (t *Throttle) record(userID uint64) *requestRecord {
	t.mu.RLock()
	record, exists := t.records[userID]
	t.mu.RUnlock()
	if exists {
		return record
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if record, exists := t.records[userID]; exists {
		return record
	}
	record = &requestRecord{windowStart: t.now()}
	t.records[userID] = record
	return record
}

// allow reports whether userID may make another request and counts it
func (t *Throttle) allow(userID uint64) bool {
	record := t.record(userID)

	record.mu.Lock()
	defer record.mu.Unlock()

	now := t.now()
	if now.Sub(record.windowStart) >= t.period {
		record.count = 1
		record.windowStart = now
		return true
	}
	if record.count >= t.maxRequests {
		return false
	}
	record.count++
	return true
}

// Middleware must run after Auth. Requests without a user context pass.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, err := authpkg.GetUserFromContext(r.Context())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if !t.allow(userCtx.UserID) {
			w.Header().Set("Retry-After", formatRetryAfter(t.period))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func formatRetryAfter(period time.Duration) string {
	seconds := int(period.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
