// internal/respstore/store.go
package respstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"loanflow-workers/internal/common/logger"
	"loanflow-workers/internal/models"
)

// ErrResponseNotFound signals that no eligibility run is stored for the case.
var ErrResponseNotFound = errors.New("ELIGIBILITY_RESPONSE_NOT_FOUND")

const responseKeyPrefix = "eligibility:case:"

// Store persists the latest eligibility response per case in Redis. Each
// save fully replaces the previous run; history is not kept here.
type Store struct {
	redis  *redis.Client
	logger logger.Logger
}

func NewStore(redisClient *redis.Client, log logger.Logger) *Store {
	return &Store{redis: redisClient, logger: log}
}

// Save writes the run as the current response for the case. TTL zero keeps
// the response until the next run overwrites it.
func (s *Store) Save(ctx context.Context, resp *models.EligibilityResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal eligibility response: %w", err)
	}

	key := responseKeyPrefix + resp.CaseID
	if err := s.redis.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("persist eligibility response: %w", err)
	}

	s.logger.Debug("Eligibility response persisted", map[string]interface{}{
		"caseId": resp.CaseID,
		"runId":  resp.RunID,
		"bytes":  len(data),
	})
	return nil
}

// Get returns the latest stored response for the case.
func (s *Store) Get(ctx context.Context, caseID string) (*models.EligibilityResponse, error) {
	data, err := s.redis.Get(ctx, responseKeyPrefix+caseID).Result()
	if err == redis.Nil {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load eligibility response: %w", err)
	}

	var resp models.EligibilityResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, fmt.Errorf("decode eligibility response: %w", err)
	}
	return &resp, nil
}
