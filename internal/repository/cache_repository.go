package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vr-ski/TransactionManager/internal/models"
)

// CatalogCache stores localized catalog listings. A miss is reported as
// ok=false with a nil error.
type CatalogCache interface {
	GetStatuses(ctx context.Context, lang string) ([]models.StatusOption, bool, error)
	SetStatuses(ctx context.Context, lang string, options []models.StatusOption) error
	GetTypes(ctx context.Context, lang string) ([]models.TypeOption, bool, error)
	SetTypes(ctx context.Context, lang string, options []models.TypeOption) error
}

type cacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) CatalogCache {
	return &cacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func statusesKey(lang string) string {
	return fmt.Sprintf("catalog:statuses:%s", lang)
}

func typesKey(lang string) string {
	return fmt.Sprintf("catalog:types:%s", lang)
}

func (r *cacheRepository) GetStatuses(ctx context.Context, lang string) ([]models.StatusOption, bool, error) {
	var options []models.StatusOption
	ok, err := r.get(ctx, statusesKey(lang), &options)
	return options, ok, err
}

func (r *cacheRepository) SetStatuses(ctx context.Context, lang string, options []models.StatusOption) error {
	return r.set(ctx, statusesKey(lang), options)
}

func (r *cacheRepository) GetTypes(ctx context.Context, lang string) ([]models.TypeOption, bool, error) {
	var options []models.TypeOption
	ok, err := r.get(ctx, typesKey(lang), &options)
	return options, ok, err
}

func (r *cacheRepository) SetTypes(ctx context.Context, lang string, options []models.TypeOption) error {
	return r.set(ctx, typesKey(lang), options)
}

func (r *cacheRepository) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
