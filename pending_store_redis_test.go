package goLogin

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newTestRedisPendingStore(t *testing.T) (*redisPendingStore, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	t.Cleanup(mr.Close)
	return newRedisPendingStore(rdb), mr
}

func TestRedisPendingSaveGetRoundTrip(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", &pendingOTP{Username: "alice", Code: 654321, Attempts: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	record, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.Username != "alice" || record.Code != 654321 || record.Attempts != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}

	id, found, err := s.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if id != "c1" || found.Code != 654321 {
		t.Fatalf("unexpected challenge %q %+v", id, found)
	}
}

func TestRedisPendingKeysCarryNoTTL(t *testing.T) {
	s, mr := newTestRedisPendingStore(t)

	if err := s.Save(context.Background(), "c1", &pendingOTP{Username: "alice", Code: 111111}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if ttl := mr.TTL(s.key("c1")); ttl != 0 {
		t.Fatalf("expected no expiry on challenge key, got %v", ttl)
	}
	if ttl := mr.TTL(s.userKey("alice")); ttl != 0 {
		t.Fatalf("expected no expiry on identity index, got %v", ttl)
	}
}

func TestRedisPendingGetUnknown(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)

	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected errPendingNotFound, got %v", err)
	}
	if _, _, err := s.FindByUsername(context.Background(), "ghost"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected errPendingNotFound, got %v", err)
	}
}

func TestRedisPendingSaveDisplacesOldChallenge(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", &pendingOTP{Username: "alice", Code: 111111}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, "c2", &pendingOTP{Username: "alice", Code: 222222}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := s.Get(ctx, "c1"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected old challenge displaced, got %v", err)
	}
	id, record, err := s.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if id != "c2" || record.Code != 222222 {
		t.Fatalf("expected the new challenge, got %q %+v", id, record)
	}
}

func TestRedisPendingRecordFailure(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", &pendingOTP{Username: "alice", Code: 111111}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for i := 1; i <= 2; i++ {
		exceeded, err := s.RecordFailure(ctx, "c1", 3)
		if err != nil {
			t.Fatalf("RecordFailure failed: %v", err)
		}
		if exceeded {
			t.Fatalf("attempt %d: expected not exceeded", i)
		}
	}

	record, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.Attempts != 2 {
		t.Fatalf("expected 2 attempts persisted, got %d", record.Attempts)
	}

	exceeded, err := s.RecordFailure(ctx, "c1", 3)
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if !exceeded {
		t.Fatal("expected third failure to exceed")
	}

	if _, err := s.Get(ctx, "c1"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected challenge gone, got %v", err)
	}
	if _, _, err := s.FindByUsername(ctx, "alice"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected index gone, got %v", err)
	}
}

func TestRedisPendingRecordFailureUnknown(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)

	if _, err := s.RecordFailure(context.Background(), "missing", 3); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected errPendingNotFound, got %v", err)
	}
}

func TestRedisPendingDelete(t *testing.T) {
	s, _ := newTestRedisPendingStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", &pendingOTP{Username: "alice", Code: 111111}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := s.Delete(ctx, "c1")
	if err != nil || !deleted {
		t.Fatalf("expected delete to report prior existence, deleted=%v err=%v", deleted, err)
	}
	deleted, err = s.Delete(ctx, "c1")
	if err != nil || deleted {
		t.Fatalf("expected second delete to be a no-op, deleted=%v err=%v", deleted, err)
	}
	if _, _, err := s.FindByUsername(ctx, "alice"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected index cleared, got %v", err)
	}
}

func TestRedisPendingStaleIndexCleanedUp(t *testing.T) {
	s, mr := newTestRedisPendingStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "c1", &pendingOTP{Username: "alice", Code: 111111}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Remove the challenge body out from under the index.
	mr.Del(s.key("c1"))

	if _, _, err := s.FindByUsername(ctx, "alice"); !errors.Is(err, errPendingNotFound) {
		t.Fatalf("expected errPendingNotFound, got %v", err)
	}
	if mr.Exists(s.userKey("alice")) {
		t.Fatal("expected stale index removed")
	}
}

func TestDecodePendingOTPRejectsUnknownVersion(t *testing.T) {
	encoded, err := encodePendingOTP(&pendingOTP{Username: "alice", Code: 111111})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	encoded[0] = 0xFF

	if _, err := decodePendingOTP(encoded); err == nil {
		t.Fatal("expected version rejection")
	}
}
