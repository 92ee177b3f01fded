package goLogin

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/MrEthical07/goLogin/store"
)

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CreateUser(ctx context.Context, username, password string) (*CreateUserResult, error) {
	if e == nil || e.users == nil || e.passwordHash == nil || e.attempts == nil {
		return nil, ErrEngineNotReady
	}

	if err := e.validateUsername(username); err != nil {
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, err, func() map[string]string {
			return map[string]string{
				"reason": "invalid_username",
			}
		})
		return nil, err
	}
	if len(password) < e.config.Store.MinPasswordLen || len(password) > e.config.maxPasswordLen() {
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, ErrWeakPassword, func() map[string]string {
			return map[string]string{
				"reason": "password_length",
			}
		})
		return nil, ErrWeakPassword
	}

	hash, err := e.passwordHash.Hash(password)
	if err != nil {
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, ErrWeakPassword, func() map[string]string {
			return map[string]string{
				"reason": "hash_failed",
			}
		})
		return nil, ErrWeakPassword
	}
	password = ""

	err = e.users.Create(username, hash)
	switch {
	case err == nil:
		// durable
	case errors.Is(err, store.ErrDuplicate):
		e.emitAudit(ctx, auditEventAccountCreateDuplicate, false, username, ErrDuplicateUser, nil)
		return nil, ErrDuplicateUser
	case errors.Is(err, store.ErrCapacity):
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, ErrCapacityExceeded, nil)
		return nil, ErrCapacityExceeded
	case errors.Is(err, store.ErrFieldTooLong):
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, err, func() map[string]string {
			return map[string]string{
				"reason": "digest_width",
			}
		})
		return nil, err
	case errors.Is(err, store.ErrPersist):
		// Created in memory only. The account works for this process
		// lifetime; the caller sees the distinction via Persisted.
		e.attempts.Register(username)
		e.emitAudit(ctx, auditEventAccountCreated, true, username, ErrNotPersisted, func() map[string]string {
			return map[string]string{
				"persisted": "false",
			}
		})
		return &CreateUserResult{Username: username, Persisted: false}, nil
	default:
		e.emitAudit(ctx, auditEventAccountCreateFailure, false, username, err, nil)
		return nil, err
	}

	e.attempts.Register(username)
	e.emitAudit(ctx, auditEventAccountCreated, true, username, nil, func() map[string]string {
		return map[string]string{
			"persisted": "true",
		}
	})
	return &CreateUserResult{Username: username, Persisted: true}, nil
}

func (e *Engine) validateUsername(username string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	if len(username) > e.config.Store.MaxUsernameLen {
		return ErrInvalidUsername
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return ErrInvalidUsername
	}
	return nil
}
