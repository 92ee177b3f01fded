// Package limiters holds the in-memory failure accounting behind the
// engine's lockout policy. Counters are deliberately ephemeral: they are
// keyed by username, never persisted, and lost on process restart.
package limiters

import "sync"

// Config defines a public type used by goLogin APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	PasswordThreshold int
	OTPThreshold      int
}

type counters struct {
	password int
	otp      int
}

// Tracker defines a public type used by goLogin APIs.
//
// Tracker instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Tracker struct {
	mu     sync.Mutex
	config Config
	counts map[string]*counters
}

// NewTracker describes the newtracker operation and its observable behavior.
//
// NewTracker may return an error when input validation, dependency calls, or security checks fail.
// NewTracker does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewTracker(cfg Config) *Tracker {
	if cfg.PasswordThreshold <= 0 {
		cfg.PasswordThreshold = 3
	}
	if cfg.OTPThreshold <= 0 {
		cfg.OTPThreshold = 3
	}
	return &Tracker{
		config: cfg,
		counts: make(map[string]*counters),
	}
}

// Register initializes zeroed counters for a newly created identity.
func (t *Tracker) Register(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.counts[username]; !ok {
		t.counts[username] = &counters{}
	}
}

// RecordPasswordFailure increments the password-failure counter and reports
// whether the lockout threshold has been reached.
func (t *Tracker) RecordPasswordFailure(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.get(username)
	c.password++
	return c.password >= t.config.PasswordThreshold
}

// RecordOTPFailure increments the OTP-failure counter and reports whether
// the lockout threshold has been reached.
func (t *Tracker) RecordOTPFailure(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.get(username)
	c.otp++
	return c.otp >= t.config.OTPThreshold
}

// ResetPassword zeroes the password-failure counter after a successful
// password verification.
func (t *Tracker) ResetPassword(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.get(username).password = 0
}

// ResetOTP zeroes the OTP-failure counter after a successful OTP match.
func (t *Tracker) ResetOTP(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.get(username).otp = 0
}

// Reset zeroes both counters for the identity.
func (t *Tracker) Reset(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.get(username)
	c.password = 0
	c.otp = 0
}

// PasswordFailures returns the current password-failure count, 0 for
// unknown identities.
func (t *Tracker) PasswordFailures(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.counts[username]; ok {
		return c.password
	}
	return 0
}

// OTPFailures returns the current OTP-failure count, 0 for unknown
// identities.
func (t *Tracker) OTPFailures(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.counts[username]; ok {
		return c.otp
	}
	return 0
}

func (t *Tracker) get(username string) *counters {
	c, ok := t.counts[username]
	if !ok {
		c = &counters{}
		t.counts[username] = c
	}
	return c
}
