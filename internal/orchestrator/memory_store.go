// internal/orchestrator/memory_store.go
package orchestrator

import (
	"context"
	"encoding/json"
	"sync"

	"rfp-bid-engine/internal/common/errors"
)

// MemoryStore keeps workflow state in process memory. States are stored as
// JSON snapshots so callers never share mutable structures with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[string][]byte{}}
}

func (s *MemoryStore) Get(ctx context.Context, workflowID string) (*State, error) {
	s.mu.RLock()
	data, ok := s.states[workflowID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewWorkflowNotFoundError(workflowID)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.NewStoreFailedError(err)
	}
	return &state, nil
}

func (s *MemoryStore) Put(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.NewStoreFailedError(err)
	}

	s.mu.Lock()
	s.states[state.Workflow.WorkflowID] = data
	s.mu.Unlock()
	return nil
}
