package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goban_rules/internal/domain/game"
	errs "goban_rules/internal/errors"
)

const currentRecordKey = "goban:record:current"

// envelope guards a stored record against truncated or hand-edited values.
type envelope struct {
	Checksum uint64          `json:"checksum"`
	Record   json.RawMessage `json:"record"`
}

type RecordRedisStorage struct {
	redis *redis.Client
	log   *zap.SugaredLogger
	ttl   time.Duration
}

// NewRecordRedisStorage keeps the current record for ttl after its last
// change. A zero ttl keeps it forever.
func NewRecordRedisStorage(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *RecordRedisStorage {
	return &RecordRedisStorage{
		redis: client,
		log:   log,
		ttl:   ttl,
	}
}

func (r *RecordRedisStorage) SaveRecord(ctx context.Context, rec game.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encoding record %s: %v", errs.ErrInternal, rec.ID, err)
	}
	data, err := json.Marshal(envelope{Checksum: xxhash.Checksum64(raw), Record: raw})
	if err != nil {
		return fmt.Errorf("%w: encoding record %s: %v", errs.ErrInternal, rec.ID, err)
	}

	if err := r.redis.Set(ctx, currentRecordKey, data, r.ttl).Err(); err != nil {
		r.log.Errorf("failed to save record %s to redis: %v", rec.ID, err)
		return fmt.Errorf("%w: saving record: %v", errs.ErrInternal, err)
	}
	return nil
}

func (r *RecordRedisStorage) LoadRecord(ctx context.Context) (game.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.redis.Get(ctx, currentRecordKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Record{}, errs.ErrRecordNotFound
	}
	if err != nil {
		r.log.Errorf("failed to load record from redis: %v", err)
		return game.Record{}, fmt.Errorf("%w: loading record: %v", errs.ErrInternal, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return game.Record{}, fmt.Errorf("%w: %v", errs.ErrCorruptRecord, err)
	}
	if xxhash.Checksum64(env.Record) != env.Checksum {
		return game.Record{}, fmt.Errorf("%w: checksum mismatch", errs.ErrCorruptRecord)
	}

	var rec game.Record
	if err := json.Unmarshal(env.Record, &rec); err != nil {
		return game.Record{}, fmt.Errorf("%w: %v", errs.ErrCorruptRecord, err)
	}
	return rec, nil
}

func (r *RecordRedisStorage) DeleteRecord(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.redis.Del(ctx, currentRecordKey).Err(); err != nil {
		r.log.Errorf("failed to delete record from redis: %v", err)
		return fmt.Errorf("%w: deleting record: %v", errs.ErrInternal, err)
	}
	return nil
}
