package service

import (
	"context"
	"todoApp/internal/models/task"
)

// TaskRepository is the key-value store boundary. Failed calls return
// *repository.Error.
type TaskRepository interface {
	HealthCheck(context.Context) error
	Scan(context.Context) ([]*task.Task, error)
	Put(context.Context, *task.Task) error
	UpdateStatus(context.Context, string, task.Status) error
	Delete(context.Context, string) error
}
