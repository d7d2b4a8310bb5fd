package handlers

import (
	"context"
	"io"
	"todoApp/internal/handlers/dto"
	"todoApp/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTasks(context.Context) []*task.Task
	CreateTask(context.Context, string) (*task.Task, error)
	CompleteTask(context.Context, string) error
	DeleteTask(context.Context, string) error
}

type Renderer interface {
	RenderTasks(io.Writer, dto.ListPage) error
}
