package handlers

import (
	"bytes"
	"net/http"
	"time"
	"todoApp/internal/handlers/dto"
	"todoApp/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceName = "todo-app"

type TaskHandler struct {
	TaskService Service
	View        Renderer
	StoreType   string
}

func NewTaskHandler(taskService Service, view Renderer, storeType string) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		View:        view,
		StoreType:   storeType,
	}
}

// ListTasks renders the task page. The service never fails here: store
// errors arrive as an empty list.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks := h.TaskService.ListTasks(r.Context())
	page := dto.NewListPage(tasks)

	var buf bytes.Buffer
	if err := h.View.RenderTasks(&buf, page); err != nil {
		logger.Error("HTTP: Failed to render task list", err)
		responseWithError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("HTTP: Failed to write page", zap.Error(err))
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: Task list rendered",
		zap.Int("tasks", page.Total),
		zap.Duration("ms", time.Since(start)))
}

func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	text, err := readTaskText(w, r)
	if err != nil {
		logger.Warn("HTTP: Failed to parse form",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidForm)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), text)
	if err != nil {
		handleServiceError(w, r, err, "create_task", msgAddFailed)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: Task created",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)))
	redirectToIndex(w, r)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.TaskService.CompleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "complete_task", msgCompleteFailed)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: Task completed",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)))
	redirectToIndex(w, r)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task", msgDeleteFailed)
		return
	}

	logger.HttpRequestInfo(r, "HTTP_OUT: Task deleted",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)))
	redirectToIndex(w, r)
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Warn("HTTP: Health check failed", zap.Error(err))
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("store", h.StoreType),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
		toPayload("store", h.StoreType),
	)
}
