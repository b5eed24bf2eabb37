package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

const (
	defaultEnrollmentKeyPrefix = "enrollments"
	redisStreamBatch           = 100
)

// ErrDuplicateEnrollmentID is returned when a natural key is already indexed.
var ErrDuplicateEnrollmentID = errors.New("enrollment id already exists")

// EnrollmentRedisRepository stores enrollments as JSON documents in Redis.
//
// Layout, for prefix p:
//
//	p:record:<id>              JSON document
//	p:by-enrollment-id:<key>   natural key -> id
//	p:ids                      sorted set of ids scored by creation time
type EnrollmentRedisRepository struct {
	client *redis.Client
	prefix string
}

// NewEnrollmentRedisRepository constructs a redis-backed enrollment store.
func NewEnrollmentRedisRepository(client *redis.Client, prefix string) *EnrollmentRedisRepository {
	if prefix == "" {
		prefix = defaultEnrollmentKeyPrefix
	}
	return &EnrollmentRedisRepository{client: client, prefix: prefix}
}

func (r *EnrollmentRedisRepository) recordKey(id string) string {
	return r.prefix + ":record:" + id
}

func (r *EnrollmentRedisRepository) indexKey(enrollmentID string) string {
	return r.prefix + ":by-enrollment-id:" + enrollmentID
}

func (r *EnrollmentRedisRepository) idsKey() string {
	return r.prefix + ":ids"
}

// Stream yields every stored enrollment in creation order.
func (r *EnrollmentRedisRepository) Stream(ctx context.Context) iter.Seq2[models.Enrollment, error] {
	return func(yield func(models.Enrollment, error) bool) {
		for start := int64(0); ; start += redisStreamBatch {
			ids, err := r.client.ZRange(ctx, r.idsKey(), start, start+redisStreamBatch-1).Result()
			if err != nil {
				yield(models.Enrollment{}, fmt.Errorf("redis list enrollments: %w", err))
				return
			}
			if len(ids) == 0 {
				return
			}

			keys := make([]string, len(ids))
			for i, id := range ids {
				keys[i] = r.recordKey(id)
			}
			values, err := r.client.MGet(ctx, keys...).Result()
			if err != nil {
				yield(models.Enrollment{}, fmt.Errorf("redis load enrollments: %w", err))
				return
			}

			for i, value := range values {
				raw, ok := value.(string)
				if !ok {
					// deleted between ZRANGE and MGET
					continue
				}
				var enrollment models.Enrollment
				if err := json.Unmarshal([]byte(raw), &enrollment); err != nil {
					yield(models.Enrollment{}, fmt.Errorf("unmarshal enrollment %s: %w", ids[i], err))
					return
				}
				if !yield(enrollment, nil) {
					return
				}
			}

			if len(ids) < redisStreamBatch {
				return
			}
		}
	}
}

// FindByEnrollmentID fetches an enrollment by its natural key.
func (r *EnrollmentRedisRepository) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	id, err := r.client.Get(ctx, r.indexKey(enrollmentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errNoRows
		}
		return nil, fmt.Errorf("redis get %s: %w", r.indexKey(enrollmentID), err)
	}
	return r.findByID(ctx, id)
}

func (r *EnrollmentRedisRepository) findByID(ctx context.Context, id string) (*models.Enrollment, error) {
	raw, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errNoRows
		}
		return nil, fmt.Errorf("redis get %s: %w", r.recordKey(id), err)
	}
	var enrollment models.Enrollment
	if err := json.Unmarshal(raw, &enrollment); err != nil {
		return nil, fmt.Errorf("unmarshal enrollment %s: %w", id, err)
	}
	return &enrollment, nil
}

// Create inserts an enrollment and indexes its natural key.
func (r *EnrollmentRedisRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now

	payload, err := json.Marshal(enrollment)
	if err != nil {
		return fmt.Errorf("marshal enrollment %s: %w", enrollment.ID, err)
	}

	claimed, err := r.client.SetNX(ctx, r.indexKey(enrollment.EnrollmentID), enrollment.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("redis index enrollment %s: %w", enrollment.EnrollmentID, err)
	}
	if !claimed {
		return fmt.Errorf("create enrollment %s: %w", enrollment.EnrollmentID, ErrDuplicateEnrollmentID)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(enrollment.ID), payload, 0)
		pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(enrollment.CreatedAt.UnixNano()), Member: enrollment.ID})
		return nil
	})
	if err != nil {
		_ = r.client.Del(ctx, r.indexKey(enrollment.EnrollmentID)).Err()
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update overwrites the stored document with the same ID.
func (r *EnrollmentRedisRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(enrollment)
	if err != nil {
		return fmt.Errorf("marshal enrollment %s: %w", enrollment.ID, err)
	}

	err = r.client.SetArgs(ctx, r.recordKey(enrollment.ID), payload, redis.SetArgs{Mode: "XX"}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errNoRows
		}
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes the document, its natural-key index and its ordering entry.
func (r *EnrollmentRedisRepository) Delete(ctx context.Context, id string) error {
	existing, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.recordKey(id), r.indexKey(existing.EnrollmentID))
		pipe.ZRem(ctx, r.idsKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (r *EnrollmentRedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (r *EnrollmentRedisRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
