package goLogin

import (
	"errors"
	"time"
)

// Config defines a public type used by goLogin APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Store   StoreConfig
	Lockout LockoutConfig
	OTP     OTPConfig
	Ticket  TicketConfig
	Audit   AuditConfig
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by goLogin APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	Path           string
	Capacity       int
	MaxUsernameLen int
	MinPasswordLen int

	// HashWidth is the fixed on-disk width of the digest field. Digests
	// must fit with a trailing NUL; raise this when plugging in a hasher
	// with longer encodings than the legacy fold digest.
	HashWidth int
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig defines a public type used by goLogin APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	PasswordThreshold int
	OTPThreshold      int
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig defines a public type used by goLogin APIs.
//
// OTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTPConfig struct {
	MaxAttempts int
}

/*
====================================
TICKET CONFIG
====================================
*/

// TicketConfig defines a public type used by goLogin APIs.
//
// TicketConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TicketConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goLogin APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the preset configuration the engine starts from:
// a 20-slot credential file, 3-failure lockout thresholds, and audit
// dispatch enabled. Callers adjust fields and pass the result to
// Builder.WithConfig.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:           "users.db",
			Capacity:       20,
			MaxUsernameLen: 47,
			MinPasswordLen: 4,
			HashWidth:      64,
		},
		Lockout: LockoutConfig{
			PasswordThreshold: 3,
			OTPThreshold:      3,
		},
		OTP: OTPConfig{
			MaxAttempts: 3,
		},
		Ticket: TicketConfig{
			Enabled:       false,
			TTL:           5 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "goLogin",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Ticket.PrivateKey = cloneBytes(cfg.Ticket.PrivateKey)
	out.Ticket.PublicKey = cloneBytes(cfg.Ticket.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Store
	if c.Store.Capacity <= 0 {
		return errors.New("Store Capacity must be > 0")
	}
	if c.Store.MaxUsernameLen <= 0 {
		return errors.New("Store MaxUsernameLen must be > 0")
	}
	if c.Store.MinPasswordLen < 1 {
		return errors.New("Store MinPasswordLen must be >= 1")
	}
	if c.Store.MinPasswordLen > c.Store.MaxUsernameLen-1 {
		return errors.New("Store MinPasswordLen exceeds the password length ceiling")
	}
	if c.Store.HashWidth <= 1 {
		return errors.New("Store HashWidth must be > 1")
	}

	// Lockout
	if c.Lockout.PasswordThreshold <= 0 {
		return errors.New("Lockout PasswordThreshold must be > 0")
	}
	if c.Lockout.OTPThreshold <= 0 {
		return errors.New("Lockout OTPThreshold must be > 0")
	}

	// OTP
	if c.OTP.MaxAttempts <= 0 {
		return errors.New("OTP MaxAttempts must be > 0")
	}

	// Ticket
	if c.Ticket.Enabled {
		if c.Ticket.TTL <= 0 {
			return errors.New("Ticket TTL must be > 0")
		}
		if c.Ticket.SigningMethod != "hs256" && c.Ticket.SigningMethod != "ed25519" {
			return errors.New("unsupported Ticket signing method")
		}
		if len(c.Ticket.PrivateKey) == 0 {
			return errors.New("Ticket requires PrivateKey")
		}
		if c.Ticket.SigningMethod == "ed25519" && len(c.Ticket.PublicKey) == 0 {
			return errors.New("ed25519 requires PublicKey")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}

// maxPasswordLen mirrors the original's bound: one below the username field width.
func (c *Config) maxPasswordLen() int {
	return c.Store.MaxUsernameLen - 1
}
