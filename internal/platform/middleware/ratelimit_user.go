package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
)

// RatePlan defines rate limiting parameters for a subscription tier.
type RatePlan struct {
	Name               string `json:"name"`
	RequestsPerMinute  int    `json:"requests_per_minute"`
	RequestsPerHour    int    `json:"requests_per_hour"`
	RequestsPerDay     int    `json:"requests_per_day"`
	BurstSize          int    `json:"burst_size"`
	ConcurrentRequests int    `json:"concurrent_requests"`
}

// RateLimitInfo is returned by Allow to communicate the decision and metadata.
type RateLimitInfo struct {
	Allowed    bool   `json:"allowed"`
	Remaining  int    `json:"remaining"`
	Limit      int    `json:"limit"`
	RetryAfter int    `json:"retry_after"`
	Plan       string `json:"plan"`
}

// UserUsage exposes the current usage counters for a user.
type UserUsage struct {
	UserID          string `json:"user_id"`
	Plan            string `json:"plan"`
	MinuteUsed      int    `json:"minute_used"`
	MinuteLimit     int    `json:"minute_limit"`
	HourUsed        int    `json:"hour_used"`
	HourLimit       int    `json:"hour_limit"`
	DayUsed         int    `json:"day_used"`
	DayLimit        int    `json:"day_limit"`
	ConcurrentUsed  int    `json:"concurrent_used"`
	ConcurrentLimit int    `json:"concurrent_limit"`
}

// userCounter tracks per-user request counts with atomic counters and
// time-window-based resets.
type userCounter struct {
	minuteCount int64
	hourCount   int64
	dayCount    int64
	concurrent  int64
	minuteReset time.Time
	hourReset   time.Time
	dayReset    time.Time
	mu          sync.Mutex // protects reset times
}

// PlanResolver maps a user to their subscription plan name. The subscription
// service provides one so that premium users get premium limits without the
// limiter importing the domain package.
type PlanResolver func(ctx context.Context, userID string) string

// UserRateLimiter provides thread-safe per-user rate limiting with multiple
// time windows and concurrent request tracking. Limits follow the user's
// subscription plan.
type UserRateLimiter struct {
	plans     map[string]*RatePlan
	userPlans map[string]string
	counters  map[string]*userCounter
	resolver  PlanResolver
	mu        sync.RWMutex
}

// DefaultRatePlans returns the rate plans for the two subscription tiers.
// Anonymous traffic (register, login) shares the free plan keyed by IP.
func DefaultRatePlans() []RatePlan {
	return []RatePlan{
		{
			Name:               "free",
			RequestsPerMinute:  120,
			RequestsPerHour:    2000,
			RequestsPerDay:     20000,
			BurstSize:          20,
			ConcurrentRequests: 10,
		},
		{
			Name:               "premium",
			RequestsPerMinute:  600,
			RequestsPerHour:    20000,
			RequestsPerDay:     200000,
			BurstSize:          60,
			ConcurrentRequests: 40,
		},
	}
}

// NewUserRateLimiter creates a UserRateLimiter pre-loaded with the default
// plans. resolver may be nil, in which case every user gets the free plan
// until AssignPlan is called.
func NewUserRateLimiter(resolver PlanResolver) *UserRateLimiter {
	rl := &UserRateLimiter{
		plans:     make(map[string]*RatePlan),
		userPlans: make(map[string]string),
		counters:  make(map[string]*userCounter),
		resolver:  resolver,
	}
	for _, p := range DefaultRatePlans() {
		plan := p // copy
		rl.plans[plan.Name] = &plan
	}
	return rl
}

// RegisterPlan adds or replaces a rate plan by name.
func (rl *UserRateLimiter) RegisterPlan(plan RatePlan) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	p := plan // copy
	rl.plans[p.Name] = &p
}

// AssignPlan pins userID to the named plan, bypassing the resolver. Returns
// an error if the plan does not exist.
func (rl *UserRateLimiter) AssignPlan(userID, planName string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.plans[planName]; !ok {
		return fmt.Errorf("rate plan %q not found", planName)
	}
	rl.userPlans[userID] = planName
	return nil
}

// PlanFor returns the plan for userID: a pinned assignment wins, then the
// resolver, then "free".
func (rl *UserRateLimiter) PlanFor(ctx context.Context, userID string) *RatePlan {
	rl.mu.RLock()
	planName, pinned := rl.userPlans[userID]
	rl.mu.RUnlock()

	if !pinned && rl.resolver != nil {
		planName = rl.resolver(ctx, userID)
	}

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	plan, ok := rl.plans[planName]
	if !ok {
		plan = rl.plans["free"]
	}
	return plan
}

// getOrCreateCounter returns the counter for userID, creating one if needed.
// Caller must NOT hold rl.mu.
func (rl *UserRateLimiter) getOrCreateCounter(userID string) *userCounter {
	rl.mu.RLock()
	c, ok := rl.counters[userID]
	rl.mu.RUnlock()
	if ok {
		return c
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	// Double-check
	if c, ok := rl.counters[userID]; ok {
		return c
	}
	now := time.Now()
	c = &userCounter{
		minuteReset: now.Add(time.Minute),
		hourReset:   now.Add(time.Hour),
		dayReset:    now.Add(24 * time.Hour),
	}
	rl.counters[userID] = c
	return c
}

// maybeResetWindows checks and resets expired time windows. Must be called
// with counter.mu held.
func maybeResetWindows(c *userCounter) {
	now := time.Now()
	if now.After(c.minuteReset) {
		atomic.StoreInt64(&c.minuteCount, 0)
		c.minuteReset = now.Add(time.Minute)
	}
	if now.After(c.hourReset) {
		atomic.StoreInt64(&c.hourCount, 0)
		c.hourReset = now.Add(time.Hour)
	}
	if now.After(c.dayReset) {
		atomic.StoreInt64(&c.dayCount, 0)
		c.dayReset = now.Add(24 * time.Hour)
	}
}

// Allow checks whether userID may issue a new request. It atomically
// increments all counters and the concurrent gauge. The caller MUST call
// Release after the request completes to free the concurrent slot.
//
// The effective per-minute limit is RequestsPerMinute + BurstSize.
func (rl *UserRateLimiter) Allow(ctx context.Context, userID string) (bool, *RateLimitInfo) {
	plan := rl.PlanFor(ctx, userID)
	counter := rl.getOrCreateCounter(userID)

	// Reset expired windows under lock
	counter.mu.Lock()
	maybeResetWindows(counter)
	resetTime := counter.minuteReset
	counter.mu.Unlock()

	effectiveMinuteLimit := int64(plan.RequestsPerMinute + plan.BurstSize)
	info := &RateLimitInfo{
		Plan:  plan.Name,
		Limit: plan.RequestsPerMinute + plan.BurstSize,
	}

	// Check concurrent limit first (if configured)
	if plan.ConcurrentRequests > 0 {
		cur := atomic.LoadInt64(&counter.concurrent)
		if cur >= int64(plan.ConcurrentRequests) {
			info.Allowed = false
			info.Remaining = 0
			info.RetryAfter = 1 // retry quickly for concurrent
			return false, info
		}
	}

	// Check minute limit
	minuteVal := atomic.LoadInt64(&counter.minuteCount)
	if minuteVal >= effectiveMinuteLimit {
		info.Allowed = false
		info.Remaining = 0
		info.RetryAfter = secondsUntil(resetTime)
		return false, info
	}

	// Check hour limit
	hourVal := atomic.LoadInt64(&counter.hourCount)
	if hourVal >= int64(plan.RequestsPerHour) {
		info.Allowed = false
		info.Remaining = 0
		counter.mu.Lock()
		info.RetryAfter = secondsUntil(counter.hourReset)
		counter.mu.Unlock()
		return false, info
	}

	// Check day limit
	dayVal := atomic.LoadInt64(&counter.dayCount)
	if dayVal >= int64(plan.RequestsPerDay) {
		info.Allowed = false
		info.Remaining = 0
		counter.mu.Lock()
		info.RetryAfter = secondsUntil(counter.dayReset)
		counter.mu.Unlock()
		return false, info
	}

	// All checks passed, increment counters
	newMinute := atomic.AddInt64(&counter.minuteCount, 1)
	atomic.AddInt64(&counter.hourCount, 1)
	atomic.AddInt64(&counter.dayCount, 1)
	atomic.AddInt64(&counter.concurrent, 1)

	remaining := int(effectiveMinuteLimit - newMinute)
	if remaining < 0 {
		remaining = 0
	}

	info.Allowed = true
	info.Remaining = remaining
	return true, info
}

// Release decrements the concurrent request counter for userID. It is safe
// to call even if Allow was never called (the counter will not go below zero).
func (rl *UserRateLimiter) Release(userID string) {
	counter := rl.getOrCreateCounter(userID)
	for {
		cur := atomic.LoadInt64(&counter.concurrent)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt64(&counter.concurrent, cur, cur-1) {
			return
		}
	}
}

// GetUsage returns a snapshot of the current counters for userID.
func (rl *UserRateLimiter) GetUsage(ctx context.Context, userID string) *UserUsage {
	plan := rl.PlanFor(ctx, userID)
	counter := rl.getOrCreateCounter(userID)

	counter.mu.Lock()
	maybeResetWindows(counter)
	counter.mu.Unlock()

	return &UserUsage{
		UserID:          userID,
		Plan:            plan.Name,
		MinuteUsed:      int(atomic.LoadInt64(&counter.minuteCount)),
		MinuteLimit:     plan.RequestsPerMinute + plan.BurstSize,
		HourUsed:        int(atomic.LoadInt64(&counter.hourCount)),
		HourLimit:       plan.RequestsPerHour,
		DayUsed:         int(atomic.LoadInt64(&counter.dayCount)),
		DayLimit:        plan.RequestsPerDay,
		ConcurrentUsed:  int(atomic.LoadInt64(&counter.concurrent)),
		ConcurrentLimit: plan.ConcurrentRequests,
	}
}

// ResetCounters zeroes all rate-limit counters for userID and resets the
// time windows.
func (rl *UserRateLimiter) ResetCounters(userID string) {
	counter := rl.getOrCreateCounter(userID)
	counter.mu.Lock()
	defer counter.mu.Unlock()

	atomic.StoreInt64(&counter.minuteCount, 0)
	atomic.StoreInt64(&counter.hourCount, 0)
	atomic.StoreInt64(&counter.dayCount, 0)
	atomic.StoreInt64(&counter.concurrent, 0)

	now := time.Now()
	counter.minuteReset = now.Add(time.Minute)
	counter.hourReset = now.Add(time.Hour)
	counter.dayReset = now.Add(24 * time.Hour)
}

// StartCleanup removes stale counters (no requests in 24 h) on a periodic
// interval. It blocks until ctx is cancelled, so call it in a goroutine.
func (rl *UserRateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for id, c := range rl.counters {
				c.mu.Lock()
				// If all windows have expired and no concurrent requests, remove.
				if now.After(c.dayReset) &&
					atomic.LoadInt64(&c.minuteCount) == 0 &&
					atomic.LoadInt64(&c.hourCount) == 0 &&
					atomic.LoadInt64(&c.dayCount) == 0 &&
					atomic.LoadInt64(&c.concurrent) == 0 {
					delete(rl.counters, id)
				}
				c.mu.Unlock()
			}
			rl.mu.Unlock()
		}
	}
}

// UserRateLimitMiddleware returns an Echo middleware that enforces per-user
// rate limits. Authenticated requests are keyed by user ID, anonymous ones
// by client IP.
func UserRateLimitMiddleware(limiter *UserRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID := auth.UserIDFromContext(ctx)
			if userID == "" {
				userID = c.RealIP()
			}

			allowed, info := limiter.Allow(ctx, userID)

			// Always set rate limit headers
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

			// Compute reset epoch
			limiter.mu.RLock()
			counter, ok := limiter.counters[userID]
			limiter.mu.RUnlock()
			if ok {
				counter.mu.Lock()
				resetEpoch := counter.minuteReset.Unix()
				counter.mu.Unlock()
				c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetEpoch, 10))
			}

			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(info.RetryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			// Execute handler, then release concurrent slot
			err := next(c)
			limiter.Release(userID)
			return err
		}
	}
}

// secondsUntil returns the number of seconds from now until t, minimum 1.
func secondsUntil(t time.Time) int {
	d := time.Until(t)
	s := int(d.Seconds())
	if s < 1 {
		return 1
	}
	return s
}
