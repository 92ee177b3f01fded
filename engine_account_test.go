package goLogin

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateUserSuccess(t *testing.T) {
	engine := newLoginTestEngine(t, loginTestConfig(t), nil)

	res, err := engine.CreateUser(context.Background(), "alice", "s3cret99")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if res.Username != "alice" || !res.Persisted {
		t.Fatalf("unexpected result: %+v", res)
	}

	rec, ok := engine.users.Find("alice")
	if !ok {
		t.Fatal("expected record stored")
	}
	if rec.PasswordHash == "" || rec.PasswordHash == "s3cret99" {
		t.Fatal("expected stored password to be hashed")
	}
	ok, err = engine.passwordHash.Verify("s3cret99", rec.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored digest to verify, ok=%v err=%v", ok, err)
	}
	if engine.PasswordFailures("alice") != 0 || engine.OTPFailures("alice") != 0 {
		t.Fatal("expected zeroed counters for a new identity")
	}
}

func TestCreateUserValidation(t *testing.T) {
	engine := newLoginTestEngine(t, loginTestConfig(t), nil)

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty username", "", "s3cret99", ErrInvalidUsername},
		{"embedded space", "al ice", "s3cret99", ErrInvalidUsername},
		{"tab", "al\tice", "s3cret99", ErrInvalidUsername},
		{"newline", "alice\n", "s3cret99", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", 48), "s3cret99", ErrInvalidUsername},
		{"password too short", "alice", "abc", ErrWeakPassword},
		{"password too long", "alice", strings.Repeat("p", 47), ErrWeakPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.CreateUser(context.Background(), tc.username, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateUserBoundaryLengthsAccepted(t *testing.T) {
	engine := newLoginTestEngine(t, loginTestConfig(t), nil)

	longName := strings.Repeat("u", 47)
	if _, err := engine.CreateUser(context.Background(), longName, "pass"); err != nil {
		t.Fatalf("expected 47-char username with 4-char password accepted, got %v", err)
	}
	if _, err := engine.CreateUser(context.Background(), "maxpass", strings.Repeat("p", 46)); err != nil {
		t.Fatalf("expected 46-char password accepted, got %v", err)
	}
}

func TestCreateUserDuplicateRejected(t *testing.T) {
	engine := newLoginTestEngine(t, loginTestConfig(t), nil)
	mustCreateUser(t, engine, "alice", "s3cret99")

	if _, err := engine.CreateUser(context.Background(), "alice", "other-pass"); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	// Case differs, so this is a distinct identity.
	if _, err := engine.CreateUser(context.Background(), "Alice", "other-pass"); err != nil {
		t.Fatalf("expected case-distinct username accepted, got %v", err)
	}
}

func TestCreateUserCapacityExceeded(t *testing.T) {
	cfg := loginTestConfig(t)
	cfg.Store.Capacity = 2
	engine := newLoginTestEngine(t, cfg, nil)

	mustCreateUser(t, engine, "u1", "pass1234")
	mustCreateUser(t, engine, "u2", "pass1234")

	if _, err := engine.CreateUser(context.Background(), "u3", "pass1234"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if got := len(engine.Usernames()); got != 2 {
		t.Fatalf("expected 2 users, got %d", got)
	}
}

func TestCreateUserPersistFailureFallsSoft(t *testing.T) {
	cfg := loginTestConfig(t)
	// A path under a directory that does not exist makes every durable
	// rewrite fail while the initial load still sees an empty store.
	cfg.Store.Path = filepath.Join(t.TempDir(), "no-such-dir", "users.db")
	engine := newLoginTestEngine(t, cfg, nil)

	res, err := engine.CreateUser(context.Background(), "alice", "s3cret99")
	if err != nil {
		t.Fatalf("expected in-memory creation, got %v", err)
	}
	if res.Persisted {
		t.Fatal("expected Persisted=false after durable-write failure")
	}

	// The in-memory account is fully usable for this process lifetime.
	loginRes, err := engine.Login(context.Background(), "alice", "s3cret99")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.ConfirmLoginOTP(context.Background(), loginRes.ChallengeID, loginRes.Code); err != nil {
		t.Fatalf("ConfirmLoginOTP failed: %v", err)
	}
}

func TestUsernamesInsertionOrder(t *testing.T) {
	engine := newLoginTestEngine(t, loginTestConfig(t), nil)

	names := []string{"carol", "alice", "bob"}
	for _, name := range names {
		mustCreateUser(t, engine, name, "pass1234")
	}

	got := engine.Usernames()
	if len(got) != len(names) {
		t.Fatalf("expected %d usernames, got %d", len(names), len(got))
	}
	for i := range names {
		if got[i] != names[i] {
			t.Fatalf("expected insertion order %v, got %v", names, got)
		}
	}
}
