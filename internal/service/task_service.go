package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/task"
	"todoApp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	repo  TaskRepository
	now   func() time.Time
	newID func() string
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// ListTasks returns every stored task, newest first. Each call reads the
// store. Store failures are logged and an empty list is returned so the page
// still renders.
func (s *TaskService) ListTasks(ctx context.Context) []*task.Task {
	tasks, err := s.repo.Scan(ctx)
	if err != nil {
		kind, _ := repository.KindOf(err)
		logger.Error("Service: Scan failed, rendering empty list", err, zap.String("kind", string(kind)))
		return []*task.Task{}
	}

	slices.SortStableFunc(tasks, func(a, b *task.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return tasks
}

func (s *TaskService) CreateTask(ctx context.Context, text string) (*task.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("task", "Task cannot be empty")
	}

	newTask := &task.Task{
		ID:        s.newID(),
		Text:      text,
		Status:    task.StatusTodo,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Put(ctx, newTask); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: Task created", zap.String("task_id", newTask.ID))
	return newTask, nil
}

// CompleteTask marks id as done without checking that it exists.
func (s *TaskService) CompleteTask(ctx context.Context, id string) error {
	if err := s.repo.UpdateStatus(ctx, id, task.StatusDone); err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	logger.Info("Service: Task completed", zap.String("task_id", id))
	return nil
}

// DeleteTask is idempotent: a missing id is not an error.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	logger.Info("Service: Task deleted", zap.String("task_id", id))
	return nil
}
