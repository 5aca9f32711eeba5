package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caja-backend/internal/config"
	"caja-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Customer summary cache keys. Summaries are expensive full joins over sales,
// installments and payments; 60 seconds of staleness is acceptable and stops
// recomputation storms on rapid dashboard navigation.
const (
	creditSummariesKey  = "summary:credit:all"
	runningSummariesKey = "summary:running:all"
	SummaryTTL          = 60 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis is
// unreachable every Get returns a miss and the caller recomputes.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when the cache is disabled)
func GetClient() *redis.Client {
	return client
}

// GetCreditSummaries returns the cached summary list, or a miss
func GetCreditSummaries(ctx context.Context) ([]models.CustomerCreditSummary, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, creditSummariesKey).Bytes()
	if err != nil {
		return nil, false
	}
	var summaries []models.CustomerCreditSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// SetCreditSummaries caches the full summary list for SummaryTTL
func SetCreditSummaries(ctx context.Context, summaries []models.CustomerCreditSummary) {
	if client == nil {
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	client.Set(ctx, creditSummariesKey, data, SummaryTTL)
}

// GetRunningSummaries returns the cached running-account list, or a miss
func GetRunningSummaries(ctx context.Context) ([]models.RunningAccountSummary, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, runningSummariesKey).Bytes()
	if err != nil {
		return nil, false
	}
	var summaries []models.RunningAccountSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

// SetRunningSummaries caches the running-account list for SummaryTTL
func SetRunningSummaries(ctx context.Context, summaries []models.RunningAccountSummary) {
	if client == nil {
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	client.Set(ctx, runningSummariesKey, data, SummaryTTL)
}

// InvalidateSummaries drops both summary lists. Called after any payment,
// credit sale mutation or cascade delete so the next read recomputes.
func InvalidateSummaries(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, creditSummariesKey, runningSummariesKey)
}
