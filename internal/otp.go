package internal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
)

const (
	otpMin  = 100000
	otpMax  = 999999
	otpSpan = otpMax - otpMin + 1
)

// ErrMalformedCode is returned for any candidate that is not a clean
// six-digit numeral in the issuable range.
var ErrMalformedCode = errors.New("malformed otp code")

// NewOTPCode returns a uniformly distributed code in [100000, 999999].
func NewOTPCode() (uint32, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return 0, err
	}
	return uint32(n.Int64()) + otpMin, nil
}

// FormatOTPCode renders a code as its six-digit decimal text.
func FormatOTPCode(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}

// ParseOTPCode validates candidate text against the code grammar: exactly
// six ASCII digits, no surrounding whitespace, no sign, no trailing
// characters, value within [100000, 999999]. Anything else is malformed.
func ParseOTPCode(s string) (uint32, error) {
	if len(s) != 6 {
		return 0, ErrMalformedCode
	}

	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrMalformedCode
		}
		v = v*10 + uint32(c-'0')
	}

	if v < otpMin || v > otpMax {
		return 0, ErrMalformedCode
	}
	return v, nil
}
