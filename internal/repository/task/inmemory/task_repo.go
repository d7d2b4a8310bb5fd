package inmemory

import (
	"context"
	"sync"
	"todoApp/internal/models/task"
)

// TaskStorage mirrors the key-value semantics of the real stores:
// UpdateStatus upserts and Delete of a missing id is a no-op.
type TaskStorage struct {
	storage map[string]task.Task
	mtx     *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[string]task.Task),
		mtx:     &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Scan(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.storage))
	for _, stored := range s.storage {
		copied := stored
		res = append(res, &copied)
	}
	return res, nil
}

func (s *TaskStorage) Put(ctx context.Context, taskToPut *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[taskToPut.ID] = *taskToPut
	return nil
}

func (s *TaskStorage) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok {
		stored = task.Task{ID: id}
	}
	stored.Status = status
	s.storage[id] = stored
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.storage, id)
	return nil
}
