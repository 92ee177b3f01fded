package goLogin

import (
	"context"
	"errors"
	"sync"
)

var (
	errPendingNotFound = errors.New("pending otp challenge not found")
	errPendingBackend  = errors.New("pending otp backend unavailable")
)

// pendingOTP is a single-use OTP challenge. It carries no expiry: a
// challenge is consumed only by a successful match or attempt exhaustion.
type pendingOTP struct {
	Username string
	Code     uint32
	Attempts uint16
}

// pendingOTPStore holds at most one outstanding challenge per identity.
// Saving a challenge for a username displaces any earlier one.
type pendingOTPStore interface {
	Save(ctx context.Context, challengeID string, record *pendingOTP) error
	Get(ctx context.Context, challengeID string) (*pendingOTP, error)
	FindByUsername(ctx context.Context, username string) (string, *pendingOTP, error)
	RecordFailure(ctx context.Context, challengeID string, maxAttempts int) (bool, error)
	Delete(ctx context.Context, challengeID string) (bool, error)
}

/*
====================================
MEMORY BACKEND
====================================
*/

type memoryPendingStore struct {
	mu     sync.Mutex
	byID   map[string]*pendingOTP
	byUser map[string]string
}

func newMemoryPendingStore() *memoryPendingStore {
	return &memoryPendingStore{
		byID:   make(map[string]*pendingOTP),
		byUser: make(map[string]string),
	}
}

func (s *memoryPendingStore) Save(_ context.Context, challengeID string, record *pendingOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID, ok := s.byUser[record.Username]; ok {
		delete(s.byID, oldID)
	}

	clone := *record
	s.byID[challengeID] = &clone
	s.byUser[record.Username] = challengeID
	return nil
}

func (s *memoryPendingStore) Get(_ context.Context, challengeID string) (*pendingOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[challengeID]
	if !ok {
		return nil, errPendingNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *memoryPendingStore) FindByUsername(_ context.Context, username string) (string, *pendingOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challengeID, ok := s.byUser[username]
	if !ok {
		return "", nil, errPendingNotFound
	}
	record, ok := s.byID[challengeID]
	if !ok {
		delete(s.byUser, username)
		return "", nil, errPendingNotFound
	}
	clone := *record
	return challengeID, &clone, nil
}

func (s *memoryPendingStore) RecordFailure(_ context.Context, challengeID string, maxAttempts int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[challengeID]
	if !ok {
		return false, errPendingNotFound
	}

	record.Attempts++
	if int(record.Attempts) >= maxAttempts {
		delete(s.byID, challengeID)
		delete(s.byUser, record.Username)
		return true, nil
	}
	return false, nil
}

func (s *memoryPendingStore) Delete(_ context.Context, challengeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[challengeID]
	if !ok {
		return false, nil
	}
	delete(s.byID, challengeID)
	delete(s.byUser, record.Username)
	return true, nil
}
