package goLogin

// CreateUserResult defines a public type used by goLogin APIs.
//
// CreateUserResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CreateUserResult struct {
	Username string

	// Persisted is false when the record was created in memory but the
	// durable rewrite of the credential store failed. The account is
	// usable for this process lifetime only.
	Persisted bool
}

// LoginResult defines a public type used by goLogin APIs.
//
// LoginResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginResult struct {
	Username string

	// OTPRequired reports that the password phase succeeded and the login
	// now waits on ConfirmLoginOTP for the challenge below.
	OTPRequired bool
	ChallengeID string

	// Code is the OTP to deliver to the user. It is returned to the caller
	// as the delivery channel of this terminal demo and must never be
	// written to any log or audit stream.
	Code string

	// Reused reports that an out-of-band pre-issued challenge was reused
	// instead of generating a fresh code.
	Reused bool

	// Ticket carries a signed login ticket when ticket issuance is enabled
	// and the OTP phase completed.
	Ticket string
}

// OTPChallenge defines a public type used by goLogin APIs.
//
// OTPChallenge instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTPChallenge struct {
	Username    string
	ChallengeID string

	// Code is the OTP to deliver to the user; see LoginResult.Code.
	Code string

	Reused bool
}
