// Package store owns the fixed-capacity credential record set and its
// durable form: a single binary file holding a record count followed by
// exactly capacity fixed-width user slots, unused slots included. The file
// is rewritten in full on every mutation.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
)

const (
	defaultCapacity      = 20
	defaultUsernameWidth = 48
	defaultHashWidth     = 64
	lockedFieldWidth     = 4
)

var (
	// ErrDuplicate is an exported constant or variable used by the credential store.
	ErrDuplicate = errors.New("username already present")
	// ErrCapacity is an exported constant or variable used by the credential store.
	ErrCapacity = errors.New("record set at capacity")
	// ErrUnknown is an exported constant or variable used by the credential store.
	ErrUnknown = errors.New("username not present")
	// ErrFieldTooLong is an exported constant or variable used by the credential store.
	ErrFieldTooLong = errors.New("field exceeds fixed record width")
	// ErrPersist wraps the I/O cause when a durable rewrite fails. The
	// in-memory mutation is kept; callers decide how to report it.
	ErrPersist = errors.New("durable write failed")
)

// Config defines a public type used by goLogin APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Path          string
	Capacity      int
	UsernameWidth int
	HashWidth     int
}

// Record defines a public type used by goLogin APIs.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	Username     string
	PasswordHash string
	Locked       bool
}

// Store defines a public type used by goLogin APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	mu      sync.Mutex
	config  Config
	records []Record
}

// Open loads the record set at cfg.Path. A missing or undersized file
// yields an empty store; a declared count outside [0, capacity] is treated
// as corruption and also yields an empty store. Neither case is an error.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store path required")
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.UsernameWidth <= 1 {
		cfg.UsernameWidth = defaultUsernameWidth
	}
	if cfg.HashWidth <= 1 {
		cfg.HashWidth = defaultHashWidth
	}

	s := &Store{config: cfg}

	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read record set: %w", err)
	}

	s.records = decodeRecordSet(cfg, data)
	return s, nil
}

func (s *Store) recordSize() int {
	return s.config.UsernameWidth + s.config.HashWidth + lockedFieldWidth
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Capacity reports the fixed maximum number of records.
func (s *Store) Capacity() int {
	return s.config.Capacity
}

// Find performs an exact, case-sensitive lookup and returns a copy of the
// record. The store never hands out aliases into its backing slice.
func (s *Store) Find(username string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Username == username {
			return s.records[i], true
		}
	}
	return Record{}, false
}

// Usernames returns the live usernames in insertion order.
func (s *Store) Usernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Username
	}
	return out
}

// Create appends a new unlocked record and rewrites the durable set. On a
// persistence failure the record is kept in memory and the returned error
// wraps ErrPersist so the caller can distinguish the two outcomes.
func (s *Store) Create(username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(username) >= s.config.UsernameWidth {
		return ErrFieldTooLong
	}
	if len(passwordHash) >= s.config.HashWidth {
		return ErrFieldTooLong
	}
	for i := range s.records {
		if s.records[i].Username == username {
			return ErrDuplicate
		}
	}
	if len(s.records) >= s.config.Capacity {
		return ErrCapacity
	}

	s.records = append(s.records, Record{
		Username:     username,
		PasswordHash: passwordHash,
	})
	return s.save()
}

// Lock flips the lock flag and rewrites the durable set. Locking is
// one-way: no unlock operation exists in this subsystem. A persistence
// failure keeps the in-memory lock and wraps ErrPersist.
func (s *Store) Lock(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Username == username {
			if s.records[i].Locked {
				return nil
			}
			s.records[i].Locked = true
			return s.save()
		}
	}
	return ErrUnknown
}

// IsLocked reports the lock flag; false for unknown identities.
func (s *Store) IsLocked(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Username == username {
			return s.records[i].Locked
		}
	}
	return false
}

// save rewrites the whole record set. Callers hold s.mu.
func (s *Store) save() error {
	if err := os.WriteFile(s.config.Path, encodeRecordSet(s.config, s.records), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

/*
====================================
CODEC
====================================
*/

func encodeRecordSet(cfg Config, records []Record) []byte {
	recordSize := cfg.UsernameWidth + cfg.HashWidth + lockedFieldWidth
	buf := make([]byte, 4+cfg.Capacity*recordSize)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(records)))

	for i := range records {
		off := 4 + i*recordSize
		copy(buf[off:off+cfg.UsernameWidth], records[i].Username)
		copy(buf[off+cfg.UsernameWidth:off+cfg.UsernameWidth+cfg.HashWidth], records[i].PasswordHash)
		if records[i].Locked {
			binary.LittleEndian.PutUint32(buf[off+cfg.UsernameWidth+cfg.HashWidth:off+recordSize], 1)
		}
	}
	return buf
}

func decodeRecordSet(cfg Config, data []byte) []Record {
	recordSize := cfg.UsernameWidth + cfg.HashWidth + lockedFieldWidth
	if len(data) < 4+cfg.Capacity*recordSize {
		return nil
	}

	count := int32(binary.LittleEndian.Uint32(data[0:4]))
	if count < 0 || int(count) > cfg.Capacity {
		// Corrupt header: reset to empty rather than fail.
		return nil
	}

	records := make([]Record, 0, count)
	for i := 0; i < int(count); i++ {
		off := 4 + i*recordSize
		records = append(records, Record{
			Username:     trimField(data[off : off+cfg.UsernameWidth]),
			PasswordHash: trimField(data[off+cfg.UsernameWidth : off+cfg.UsernameWidth+cfg.HashWidth]),
			Locked:       binary.LittleEndian.Uint32(data[off+cfg.UsernameWidth+cfg.HashWidth:off+recordSize]) != 0,
		})
	}
	return records
}

func trimField(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
