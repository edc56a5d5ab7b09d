package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const window = time.Minute

// Action names a rate-limited public endpoint.
type Action string

const (
	ActionSubmitOrder      Action = "order"
	ActionSubmitInquiry    Action = "inquiry"
	ActionSubmitSuggestion Action = "suggestion"
	ActionAdminLogin       Action = "login"
)

// Counter records one hit in a fixed window and reports the running count and
// the time left in that window.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Limiter struct {
	counter Counter
	limits  map[Action]int
}

// NewLimiter builds a fixed one-minute window limiter. A limit of zero or less
// disables the action.
func NewLimiter(counter Counter, limits map[Action]int) *Limiter {
	normalized := make(map[Action]int, len(limits))
	for action, limit := range limits {
		if limit > 0 {
			normalized[action] = limit
		}
	}
	return &Limiter{counter: counter, limits: normalized}
}

// Allow counts one attempt by client. When blocked it returns the seconds
// until the window resets.
func (l *Limiter) Allow(ctx context.Context, action Action, client string) (int64, bool, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return 0, false, fmt.Errorf("client key is required")
	}
	limit, ok := l.limits[action]
	if !ok {
		return 0, true, nil
	}
	if l.counter == nil {
		return 0, false, fmt.Errorf("rate limiter counter is nil")
	}

	count, ttl, err := l.counter.Hit(ctx, windowKey(action, client), window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(limit) {
		return ceilSeconds(ttl), false, nil
	}
	return 0, true, nil
}

func windowKey(action Action, client string) string {
	return "rate:" + string(action) + ":min:" + client
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
