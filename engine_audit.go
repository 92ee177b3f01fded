package goLogin

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventAccountCreated         = "account_created"
	auditEventAccountCreateFailure   = "account_create_failure"
	auditEventAccountCreateDuplicate = "account_create_duplicate"
	auditEventUserNotFound           = "user_not_found"
	auditEventLoginLockedAccount     = "login_locked_account"
	auditEventPasswordFailure        = "failed_password_attempt"
	auditEventAccountLockedPassword  = "account_locked_password_threshold"
	auditEventOTPRequestNotFound     = "otp_request_failed_not_found"
	auditEventOTPRequestLocked       = "otp_request_failed_locked"
	auditEventOTPRequestSuccess      = "otp_request_success"
	auditEventOTPFailure             = "failed_otp_attempt"
	auditEventAccountLockedOTP       = "account_locked_otp_threshold"
	auditEventLoginSuccess           = "login_success"
)

// AuditErrorCode defines a public type used by goLogin APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidUsername  AuditErrorCode = "invalid_username"
	auditErrDuplicate        AuditErrorCode = "duplicate"
	auditErrWeakPassword     AuditErrorCode = "weak_password"
	auditErrCapacity         AuditErrorCode = "capacity_exceeded"
	auditErrUserNotFound     AuditErrorCode = "user_not_found"
	auditErrInvalidPassword  AuditErrorCode = "invalid_password"
	auditErrAccountLocked    AuditErrorCode = "account_locked"
	auditErrMalformedOTP     AuditErrorCode = "malformed_otp_input"
	auditErrInvalidOTP       AuditErrorCode = "invalid_otp"
	auditErrAttemptsExceeded AuditErrorCode = "attempts_exceeded"
	auditErrNoPendingOTP     AuditErrorCode = "no_pending_otp"
	auditErrNotPersisted     AuditErrorCode = "not_persisted"
	auditErrUnavailable      AuditErrorCode = "backend_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidUsername):
		return auditErrInvalidUsername
	case errors.Is(err, ErrDuplicateUser):
		return auditErrDuplicate
	case errors.Is(err, ErrWeakPassword):
		return auditErrWeakPassword
	case errors.Is(err, ErrCapacityExceeded):
		return auditErrCapacity
	case errors.Is(err, ErrUnknownUser):
		return auditErrUserNotFound
	case errors.Is(err, ErrAccountLocked):
		return auditErrAccountLocked
	case errors.Is(err, ErrInvalidPassword):
		return auditErrInvalidPassword
	case errors.Is(err, ErrMalformedOTPInput):
		return auditErrMalformedOTP
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return auditErrAttemptsExceeded
	case errors.Is(err, ErrInvalidOTP):
		return auditErrInvalidOTP
	case errors.Is(err, ErrNoPendingOTP):
		return auditErrNoPendingOTP
	case errors.Is(err, ErrNotPersisted):
		return auditErrNotPersisted
	case errors.Is(err, ErrOTPUnavailable),
		errors.Is(err, ErrTicketUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
