package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"todoApp/internal/logger"
	"todoApp/internal/models/task"
	repo "todoApp/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage keeps one hash per task under <prefix>:task:<id> and the set of
// known ids under <prefix>:ids.
type Storage struct {
	client *redis.Client
	prefix string
}

func New(ctx context.Context, url, prefix string) (*Storage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("Repository: Invalid redis url", err)
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = -1

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Error("Repository: Redis ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Connected to Redis", zap.String("prefix", prefix))
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) Close() error {
	logger.Info("Repository: Redis client closed")
	return s.client.Close()
}

func (s *Storage) idsKey() string {
	return s.prefix + ":ids"
}

func (s *Storage) taskKey(id string) string {
	return s.prefix + ":task:" + id
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return classify("ping", err)
	}
	return nil
}

func (s *Storage) Scan(ctx context.Context) ([]*task.Task, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		logger.Error("Repository: Failed to read task ids", err)
		return nil, classify("scan", err)
	}
	if len(ids) == 0 {
		return []*task.Task{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.taskKey(id))
		}
		return nil
	})
	if err != nil {
		logger.Error("Repository: Failed to read tasks", err)
		return nil, classify("scan", err)
	}

	tasks := make([]*task.Task, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		// deleted between SMEMBERS and HGETALL
		if len(fields) == 0 {
			continue
		}
		tasks = append(tasks, fromHash(ids[i], fields))
	}
	return tasks, nil
}

func fromHash(id string, fields map[string]string) *task.Task {
	return &task.Task{
		ID:        id,
		Text:      fields["task"],
		Status:    task.Status(fields["status"]),
		CreatedAt: task.ParseCreatedAt(fields["created_at"]),
	}
}

func (s *Storage) Put(ctx context.Context, taskToPut *task.Task) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.taskKey(taskToPut.ID),
			"id", taskToPut.ID,
			"task", taskToPut.Text,
			"status", string(taskToPut.Status),
			"created_at", task.FormatCreatedAt(taskToPut.CreatedAt),
		)
		pipe.SAdd(ctx, s.idsKey(), taskToPut.ID)
		return nil
	})
	if err != nil {
		logger.Error("Repository: Failed to put task", err, zap.String("task_id", taskToPut.ID))
		return classify("put", err)
	}
	return nil
}

// UpdateStatus upserts, creating a status-only hash for an unknown id.
func (s *Storage) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.taskKey(id), "id", id, "status", string(status))
		pipe.SAdd(ctx, s.idsKey(), id)
		return nil
	})
	if err != nil {
		logger.Error("Repository: Failed to update task status", err, zap.String("task_id", id))
		return classify("update", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.taskKey(id))
		pipe.SRem(ctx, s.idsKey(), id)
		return nil
	})
	if err != nil {
		logger.Error("Repository: Failed to delete task", err, zap.String("task_id", id))
		return classify("delete", err)
	}
	return nil
}

func classify(op string, err error) error {
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		msg := redisErr.Error()
		for _, prefix := range []string{"BUSY", "LOADING", "OOM", "MASTERDOWN"} {
			if strings.HasPrefix(msg, prefix) {
				return repo.NewError(op, repo.KindThrottled, err)
			}
		}
		if strings.HasPrefix(msg, "WRONGTYPE") {
			return repo.NewError(op, repo.KindMalformed, err)
		}
		return repo.Wrap(op, repo.KindInternal, err)
	}
	return repo.Wrap(op, repo.KindUnavailable, err)
}
