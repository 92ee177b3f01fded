package goLogin

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

const (
	pendingKeyPrefix      = "po"
	pendingUserKeyPrefix  = "pou"
	pendingRecordVersion1 = 1
)

// redisPendingStore keeps pending OTP challenges in redis so several demo
// processes can share one challenge space. Keys carry no TTL: expiry is by
// consumption only, matching the in-memory backend.
type redisPendingStore struct {
	redis *redis.Client
}

func newRedisPendingStore(redisClient *redis.Client) *redisPendingStore {
	return &redisPendingStore{redis: redisClient}
}

func (s *redisPendingStore) key(challengeID string) string {
	return pendingKeyPrefix + ":" + challengeID
}

func (s *redisPendingStore) userKey(username string) string {
	return pendingUserKeyPrefix + ":" + username
}

func (s *redisPendingStore) Save(ctx context.Context, challengeID string, record *pendingOTP) error {
	encoded, err := encodePendingOTP(record)
	if err != nil {
		return err
	}

	oldID, err := s.redis.Get(ctx, s.userKey(record.Username)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", errPendingBackend, err)
	}

	pipe := s.redis.TxPipeline()
	if oldID != "" && oldID != challengeID {
		pipe.Del(ctx, s.key(oldID))
	}
	pipe.Set(ctx, s.key(challengeID), encoded, 0)
	pipe.Set(ctx, s.userKey(record.Username), challengeID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", errPendingBackend, err)
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, challengeID string) (*pendingOTP, error) {
	data, err := s.redis.Get(ctx, s.key(challengeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errPendingNotFound
		}
		return nil, fmt.Errorf("%w: %v", errPendingBackend, err)
	}
	return decodePendingOTP(data)
}

func (s *redisPendingStore) FindByUsername(ctx context.Context, username string) (string, *pendingOTP, error) {
	challengeID, err := s.redis.Get(ctx, s.userKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, errPendingNotFound
		}
		return "", nil, fmt.Errorf("%w: %v", errPendingBackend, err)
	}

	record, err := s.Get(ctx, challengeID)
	if err != nil {
		if errors.Is(err, errPendingNotFound) {
			_, _ = s.redis.Del(ctx, s.userKey(username)).Result()
		}
		return "", nil, err
	}
	return challengeID, record, nil
}

func (s *redisPendingStore) RecordFailure(ctx context.Context, challengeID string, maxAttempts int) (bool, error) {
	const maxRetries = 4
	key := s.key(challengeID)

	for i := 0; i < maxRetries; i++ {
		var exceeded bool
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodePendingOTP(data)
			if err != nil {
				return err
			}

			record.Attempts++
			if int(record.Attempts) >= maxAttempts {
				exceeded = true
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					pipe.Del(ctx, s.userKey(record.Username))
					return nil
				})
				return err
			}

			updated, err := encodePendingOTP(record)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, 0)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return false, errPendingNotFound
			}
			return false, fmt.Errorf("%w: %v", errPendingBackend, err)
		}
		return exceeded, nil
	}

	return false, errPendingNotFound
}

func (s *redisPendingStore) Delete(ctx context.Context, challengeID string) (bool, error) {
	data, err := s.redis.Get(ctx, s.key(challengeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", errPendingBackend, err)
	}

	record, err := decodePendingOTP(data)
	if err != nil {
		return false, err
	}

	pipe := s.redis.TxPipeline()
	del := pipe.Del(ctx, s.key(challengeID))
	pipe.Del(ctx, s.userKey(record.Username))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", errPendingBackend, err)
	}
	return del.Val() > 0, nil
}

/*
====================================
CODEC
====================================
*/

func encodePendingOTP(record *pendingOTP) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(pendingRecordVersion1)

	if err := binary.Write(&buf, binary.BigEndian, record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.Code); err != nil {
		return nil, err
	}

	if len(record.Username) > 65535 {
		return nil, errors.New("pending otp username length exceeded")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Username))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Username)

	return buf.Bytes(), nil
}

func decodePendingOTP(data []byte) (*pendingOTP, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != pendingRecordVersion1 {
		return nil, errors.New("invalid pending otp record version")
	}

	record := &pendingOTP{}
	if err := binary.Read(reader, binary.BigEndian, &record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.Code); err != nil {
		return nil, err
	}

	var nameLen uint16
	if err := binary.Read(reader, binary.BigEndian, &nameLen); err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(reader, name); err != nil {
		return nil, err
	}
	record.Username = string(name)

	return record, nil
}
