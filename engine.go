package goLogin

import (
	"github.com/MrEthical07/goLogin/internal/limiters"
	"github.com/MrEthical07/goLogin/password"
	"github.com/MrEthical07/goLogin/store"
	"github.com/MrEthical07/goLogin/ticket"
)

// Engine defines a public type used by goLogin APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	users        *store.Store
	attempts     *limiters.Tracker
	pending      pendingOTPStore
	audit        *auditDispatcher
	passwordHash password.Hasher
	tickets      *ticket.Manager
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// PasswordFailures reports the in-memory password-failure count for an
// identity; 0 for unknown identities.
func (e *Engine) PasswordFailures(username string) int {
	if e == nil || e.attempts == nil {
		return 0
	}
	return e.attempts.PasswordFailures(username)
}

// OTPFailures reports the in-memory OTP-failure count for an identity; 0
// for unknown identities.
func (e *Engine) OTPFailures(username string) int {
	if e == nil || e.attempts == nil {
		return 0
	}
	return e.attempts.OTPFailures(username)
}

// IsLocked reports whether an identity is locked out.
func (e *Engine) IsLocked(username string) bool {
	if e == nil || e.users == nil {
		return false
	}
	return e.users.IsLocked(username)
}

// Usernames lists the registered identities in creation order.
func (e *Engine) Usernames() []string {
	if e == nil || e.users == nil {
		return nil
	}
	return e.users.Usernames()
}
