package goLogin

import (
	"errors"

	"github.com/MrEthical07/goLogin/internal/limiters"
	"github.com/MrEthical07/goLogin/password"
	"github.com/MrEthical07/goLogin/store"
	"github.com/MrEthical07/goLogin/ticket"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goLogin APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	users     *store.Store
	hasher    password.Hasher
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects the redis-backed pending-OTP challenge store. Without
// it challenges live in process memory, matching the single-process demo.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore may return an error when input validation, dependency calls, or security checks fail.
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(s *store.Store) *Builder {
	b.users = s
	return b
}

// WithHasher describes the withhasher operation and its observable behavior.
//
// WithHasher may return an error when input validation, dependency calls, or security checks fail.
// WithHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHasher(h password.Hasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	users := b.users
	if users == nil {
		opened, err := store.Open(store.Config{
			Path:          cfg.Store.Path,
			Capacity:      cfg.Store.Capacity,
			UsernameWidth: cfg.Store.MaxUsernameLen + 1,
			HashWidth:     cfg.Store.HashWidth,
		})
		if err != nil {
			return nil, err
		}
		users = opened
	}

	hasher := b.hasher
	if hasher == nil {
		hasher = password.NewFold()
	}

	engine := &Engine{
		config:       cfg,
		users:        users,
		passwordHash: hasher,
	}

	engine.attempts = limiters.NewTracker(limiters.Config{
		PasswordThreshold: cfg.Lockout.PasswordThreshold,
		OTPThreshold:      cfg.Lockout.OTPThreshold,
	})

	if b.redis != nil {
		engine.pending = newRedisPendingStore(b.redis)
	} else {
		engine.pending = newMemoryPendingStore()
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)

	if cfg.Ticket.Enabled {
		tm, err := ticket.NewManager(ticket.Config{
			TTL:           cfg.Ticket.TTL,
			SigningMethod: ticket.SigningMethod(cfg.Ticket.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Ticket.PrivateKey),
			PublicKey:     cloneBytes(cfg.Ticket.PublicKey),
			Issuer:        cfg.Ticket.Issuer,
		})
		if err != nil {
			return nil, err
		}
		engine.tickets = tm
	}

	b.built = true

	return engine, nil
}
