package goLogin

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/MrEthical07/goLogin/internal"
)

// Login runs the password phase of the login state machine: identity
// resolution, lock check, constant-time password verification and failure
// accounting. On success it issues an OTP challenge (reusing a pre-issued
// one when present) and returns it with OTPRequired set; the caller
// completes the login through ConfirmLoginOTP.
//
// The returned Code is the delivery channel of this terminal demo and must
// never be logged.
func (e *Engine) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if e == nil || e.users == nil || e.passwordHash == nil || e.attempts == nil || e.pending == nil {
		return nil, ErrEngineNotReady
	}

	// Empty inputs are rejected before identity resolution with no
	// counter side effects.
	if username == "" {
		e.emitAudit(ctx, auditEventUserNotFound, false, "", ErrUnknownUser, func() map[string]string {
			return map[string]string{
				"reason": "empty_username",
			}
		})
		return nil, ErrUnknownUser
	}
	if password == "" {
		return nil, ErrInvalidPassword
	}

	user, ok := e.users.Find(username)
	if !ok {
		e.emitAudit(ctx, auditEventUserNotFound, false, username, ErrUnknownUser, nil)
		return nil, ErrUnknownUser
	}

	// The lock check precedes any digest comparison.
	if user.Locked {
		e.emitAudit(ctx, auditEventLoginLockedAccount, false, username, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	match, err := e.passwordHash.Verify(password, user.PasswordHash)
	password = ""
	if err != nil || !match {
		return nil, e.failPasswordAttempt(ctx, username)
	}
	e.attempts.ResetPassword(username)

	challengeID, record, err := e.pending.FindByUsername(ctx, username)
	reused := err == nil
	if err != nil {
		if !errors.Is(err, errPendingNotFound) {
			return nil, ErrOTPUnavailable
		}
		code, genErr := internal.NewOTPCode()
		if genErr != nil {
			return nil, ErrOTPUnavailable
		}
		challengeID = uuid.NewString()
		record = &pendingOTP{Username: username, Code: code}
		if saveErr := e.pending.Save(ctx, challengeID, record); saveErr != nil {
			return nil, ErrOTPUnavailable
		}
	}

	return &LoginResult{
		Username:    username,
		OTPRequired: true,
		ChallengeID: challengeID,
		Code:        internal.FormatOTPCode(record.Code),
		Reused:      reused,
	}, nil
}

// ConfirmLoginOTP submits one OTP candidate against an outstanding
// challenge. Malformed input counts as a failed attempt. The challenge is
// consumed by a successful match or by attempt exhaustion; a pre-issued
// challenge is subject to the same accounting as a login-issued one.
func (e *Engine) ConfirmLoginOTP(ctx context.Context, challengeID, candidate string) (*LoginResult, error) {
	if e == nil || e.users == nil || e.attempts == nil || e.pending == nil {
		return nil, ErrEngineNotReady
	}

	record, err := e.pending.Get(ctx, challengeID)
	if err != nil {
		if errors.Is(err, errPendingNotFound) {
			return nil, ErrNoPendingOTP
		}
		return nil, ErrOTPUnavailable
	}
	username := record.Username

	if e.users.IsLocked(username) {
		// Locked identities get no further attempts; drop the challenge.
		_, _ = e.pending.Delete(ctx, challengeID)
		e.emitAudit(ctx, auditEventLoginLockedAccount, false, username, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	code, parseErr := internal.ParseOTPCode(candidate)
	if parseErr != nil {
		return nil, e.failOTPAttempt(ctx, challengeID, username, ErrMalformedOTPInput)
	}
	if code != record.Code {
		return nil, e.failOTPAttempt(ctx, challengeID, username, ErrInvalidOTP)
	}

	deleted, err := e.pending.Delete(ctx, challengeID)
	if err != nil {
		return nil, ErrOTPUnavailable
	}
	if !deleted {
		// Consumed concurrently; a matched code must not be replayable.
		return nil, ErrNoPendingOTP
	}

	e.attempts.Reset(username)

	result := &LoginResult{Username: username}
	if e.tickets != nil {
		issued, err := e.tickets.Issue(username)
		if err != nil {
			return nil, errors.Join(ErrTicketUnavailable, err)
		}
		result.Ticket = issued
	}

	e.emitAudit(ctx, auditEventLoginSuccess, true, username, nil, nil)
	return result, nil
}

func (e *Engine) failPasswordAttempt(ctx context.Context, username string) error {
	reached := e.attempts.RecordPasswordFailure(username)
	if reached && !e.users.IsLocked(username) {
		if lockErr := e.users.Lock(username); lockErr != nil {
			// Lock persistence is best-effort; the in-memory lock holds.
			log.Print("goLogin: lock persistence failed")
		}
		e.emitAudit(ctx, auditEventAccountLockedPassword, false, username, ErrAccountLocked, nil)
		return ErrAccountLocked
	}

	e.emitAudit(ctx, auditEventPasswordFailure, false, username, ErrInvalidPassword, nil)
	return ErrInvalidPassword
}

func (e *Engine) failOTPAttempt(ctx context.Context, challengeID, username string, cause error) error {
	exceeded, recErr := e.pending.RecordFailure(ctx, challengeID, e.config.OTP.MaxAttempts)
	if recErr != nil && !errors.Is(recErr, errPendingNotFound) {
		return ErrOTPUnavailable
	}

	reason := "code_mismatch"
	if errors.Is(cause, ErrMalformedOTPInput) {
		reason = "malformed_input"
	}
	e.emitAudit(ctx, auditEventOTPFailure, false, username, cause, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})

	if reached := e.attempts.RecordOTPFailure(username); reached && !e.users.IsLocked(username) {
		if lockErr := e.users.Lock(username); lockErr != nil {
			log.Print("goLogin: lock persistence failed")
		}
		e.emitAudit(ctx, auditEventAccountLockedOTP, false, username, ErrAccountLocked, nil)
		return errors.Join(cause, ErrAccountLocked)
	}

	if exceeded {
		return errors.Join(cause, ErrOTPAttemptsExceeded)
	}
	return cause
}
