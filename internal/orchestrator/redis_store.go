// internal/orchestrator/redis_store.go
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rfp-bid-engine/internal/common/errors"
)

const workflowKeyPrefix = "bid:workflow:"

// RedisStore persists workflow state in Redis so execution calls may land on
// any process. Entries expire after the configured TTL; an expired workflow
// reads as not found.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func workflowKey(workflowID string) string {
	return fmt.Sprintf("%s%s", workflowKeyPrefix, workflowID)
}

func (s *RedisStore) Get(ctx context.Context, workflowID string) (*State, error) {
	data, err := s.client.Get(ctx, workflowKey(workflowID)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewWorkflowNotFoundError(workflowID)
	}
	if err != nil {
		return nil, errors.NewStoreFailedError(err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.NewStoreFailedError(err)
	}
	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.NewStoreFailedError(err)
	}

	if err := s.client.Set(ctx, workflowKey(state.Workflow.WorkflowID), data, s.ttl).Err(); err != nil {
		return errors.NewStoreFailedError(err)
	}
	return nil
}
