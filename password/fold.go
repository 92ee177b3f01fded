package password

import (
	"errors"
	"strconv"
)

// Fold reproduces the original demo's unsalted multiplicative fold digest,
// rendered as a decimal string. It is NOT a security-grade password hash:
// no salt, no work factor, trivially brute-forceable. It exists so the
// engine can read legacy record sets; new deployments should use Argon2.
type Fold struct{}

// NewFold describes the newfold operation and its observable behavior.
//
// NewFold may return an error when input validation, dependency calls, or security checks fail.
// NewFold does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewFold() *Fold {
	return &Fold{}
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *Fold) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	var h uint64 = 5381
	for i := 0; i < len(password); i++ {
		h = h*33 + uint64(password[i])
	}
	return strconv.FormatUint(h, 10), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *Fold) Verify(password, encoded string) (bool, error) {
	computed, err := f.Hash(password)
	if err != nil {
		return false, err
	}
	equal, _ := digestEqual(computed, encoded)
	return equal, nil
}
