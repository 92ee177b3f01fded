package goLogin

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrEthical07/goLogin/internal"
)

// RequestOTP issues a pre-login OTP challenge out of band. At most one
// challenge is outstanding per identity: a second request returns the
// existing challenge unchanged, including any failure attempts it has
// accumulated. Unknown and locked identities are refused.
//
// The returned Code must never be logged.
func (e *Engine) RequestOTP(ctx context.Context, username string) (*OTPChallenge, error) {
	if e == nil || e.users == nil || e.pending == nil {
		return nil, ErrEngineNotReady
	}

	if _, ok := e.users.Find(username); !ok {
		e.emitAudit(ctx, auditEventOTPRequestNotFound, false, username, ErrUnknownUser, nil)
		return nil, ErrUnknownUser
	}
	if e.users.IsLocked(username) {
		e.emitAudit(ctx, auditEventOTPRequestLocked, false, username, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	if challengeID, record, err := e.pending.FindByUsername(ctx, username); err == nil {
		e.emitAudit(ctx, auditEventOTPRequestSuccess, true, username, nil, func() map[string]string {
			return map[string]string{
				"reused": "true",
			}
		})
		return &OTPChallenge{
			Username:    username,
			ChallengeID: challengeID,
			Code:        internal.FormatOTPCode(record.Code),
			Reused:      true,
		}, nil
	} else if !errors.Is(err, errPendingNotFound) {
		return nil, ErrOTPUnavailable
	}

	code, err := internal.NewOTPCode()
	if err != nil {
		return nil, ErrOTPUnavailable
	}
	challengeID := uuid.NewString()
	if err := e.pending.Save(ctx, challengeID, &pendingOTP{Username: username, Code: code}); err != nil {
		return nil, ErrOTPUnavailable
	}

	e.emitAudit(ctx, auditEventOTPRequestSuccess, true, username, nil, nil)
	return &OTPChallenge{
		Username:    username,
		ChallengeID: challengeID,
		Code:        internal.FormatOTPCode(code),
	}, nil
}
