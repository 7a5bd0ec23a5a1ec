package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finsentry/internal/analytics"
	"finsentry/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Investigator caching
func (s *CacheService) CacheInvestigator(ctx context.Context, inv *models.Investigator) error {
	if inv == nil {
		return errors.New("cannot cache nil investigator")
	}

	keys := []string{
		s.GenerateKey("investigator", "id", inv.ID),
		s.GenerateKey("investigator", "email", inv.Email),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, inv); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetInvestigator(ctx context.Context, key string) (*models.Investigator, error) {
	var inv models.Investigator
	found, err := s.Get(ctx, key, &inv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("investigator not found in cache")
	}
	return &inv, nil
}

func (s *CacheService) InvalidateInvestigator(ctx context.Context, id uint) error {
	inv, err := s.GetInvestigator(ctx, s.GenerateKey("investigator", "id", id))
	if err != nil {
		return err
	}
	return s.Delete(ctx,
		s.GenerateKey("investigator", "id", id),
		s.GenerateKey("investigator", "email", inv.Email),
	)
}

// Report caching. Full reports are expensive to recompute, so they get a
// longer TTL than the default.
func (s *CacheService) CacheReport(ctx context.Context, datasetID string, report *analytics.Report) error {
	if report == nil {
		return errors.New("cannot cache nil report")
	}
	key := s.GenerateKey("report", "dataset", datasetID)
	return s.SetWithTTL(ctx, key, report, 7*24*time.Hour)
}

func (s *CacheService) GetReport(ctx context.Context, datasetID string) (*analytics.Report, error) {
	key := s.GenerateKey("report", "dataset", datasetID)
	var report analytics.Report
	found, err := s.Get(ctx, key, &report)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("report not found in cache")
	}
	return &report, nil
}

func (s *CacheService) InvalidateReport(ctx context.Context, datasetID string) error {
	return s.Delete(ctx, s.GenerateKey("report", "dataset", datasetID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
