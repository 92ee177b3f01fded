package goLogin

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the login engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrInvalidUsername is an exported constant or variable used by the login engine.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrDuplicateUser is an exported constant or variable used by the login engine.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrWeakPassword is an exported constant or variable used by the login engine.
	ErrWeakPassword = errors.New("password violates length policy")
	// ErrCapacityExceeded is an exported constant or variable used by the login engine.
	ErrCapacityExceeded = errors.New("credential store at capacity")
	// ErrUnknownUser is an exported constant or variable used by the login engine.
	ErrUnknownUser = errors.New("user not found")
	// ErrInvalidPassword is an exported constant or variable used by the login engine.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrAccountLocked is an exported constant or variable used by the login engine.
	ErrAccountLocked = errors.New("account locked")
	// ErrMalformedOTPInput is an exported constant or variable used by the login engine.
	ErrMalformedOTPInput = errors.New("malformed otp input")
	// ErrInvalidOTP is an exported constant or variable used by the login engine.
	ErrInvalidOTP = errors.New("invalid otp code")
	// ErrOTPAttemptsExceeded is an exported constant or variable used by the login engine.
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	// ErrNoPendingOTP is an exported constant or variable used by the login engine.
	ErrNoPendingOTP = errors.New("no pending otp challenge")
	// ErrOTPUnavailable is an exported constant or variable used by the login engine.
	ErrOTPUnavailable = errors.New("otp backend unavailable")
	// ErrNotPersisted is an exported constant or variable used by the login engine.
	ErrNotPersisted = errors.New("record not durably persisted")
	// ErrTicketUnavailable is an exported constant or variable used by the login engine.
	ErrTicketUnavailable = errors.New("ticket issuance unavailable")
)
