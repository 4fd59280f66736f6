package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carehq/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent; callers fall through to the
// repository.
var ErrCacheMiss = redis.Nil

type CacheService interface {
	// Resident caching
	GetResident(ctx context.Context, tenantID, residentID uuid.UUID) (*models.Resident, error)
	SetResident(ctx context.Context, resident *models.Resident, ttl time.Duration) error
	DeleteResident(ctx context.Context, tenantID, residentID uuid.UUID) error

	// Occupancy snapshot caching
	GetOccupancy(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error)
	SetOccupancy(ctx context.Context, tenantID uuid.UUID, snapshot map[string]interface{}, ttl time.Duration) error

	// Cache invalidation
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)

	// Generic string operations for refresh-token storage
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func residentKey(tenantID, residentID uuid.UUID) string {
	return fmt.Sprintf("carehq:resident:%s:%s", tenantID, residentID)
}

func occupancyKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("carehq:occupancy:%s", tenantID)
}

func (r *redisCacheService) GetResident(ctx context.Context, tenantID, residentID uuid.UUID) (*models.Resident, error) {
	data, err := r.client.Get(ctx, residentKey(tenantID, residentID)).Bytes()
	if err != nil {
		return nil, err
	}
	resident := &models.Resident{}
	if err := json.Unmarshal(data, resident); err != nil {
		return nil, err
	}
	return resident, nil
}

func (r *redisCacheService) SetResident(ctx context.Context, resident *models.Resident, ttl time.Duration) error {
	data, err := json.Marshal(resident)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, residentKey(resident.TenantID, resident.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteResident(ctx context.Context, tenantID, residentID uuid.UUID) error {
	return r.client.Del(ctx, residentKey(tenantID, residentID)).Err()
}

func (r *redisCacheService) GetOccupancy(ctx context.Context, tenantID uuid.UUID) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, occupancyKey(tenantID)).Bytes()
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]interface{})
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *redisCacheService) SetOccupancy(ctx context.Context, tenantID uuid.UUID, snapshot map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, occupancyKey(tenantID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("carehq:*:%s*", tenantID)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
