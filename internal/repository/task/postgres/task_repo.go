package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/task"
	repo "todoApp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type Storage struct {
	pool  *pgxpool.Pool
	table string
}

func New(ctx context.Context, connString, table string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Failed to parse postgres config", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Storage{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Repository: Connected to PostgreSQL", zap.String("table", table))
	return s, nil
}

func (s *Storage) migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		id         TEXT PRIMARY KEY,
		task       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ
	)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		logger.Error("Repository: Failed to create table", err)
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL pool closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return classify("ping", err)
	}
	return nil
}

func (s *Storage) Scan(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT id, task, status, created_at FROM ` + s.table

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Failed to scan tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, classify("scan", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		var (
			t         task.Task
			createdAt *time.Time
		)
		if err := rows.Scan(&t.ID, &t.Text, &t.Status, &createdAt); err != nil {
			logger.Error("Repository: Failed to decode task row", err)
			return nil, repo.NewError("scan", repo.KindMalformed, err)
		}
		if createdAt != nil {
			t.CreatedAt = createdAt.UTC()
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Failed to iterate task rows", err)
		return nil, classify("scan", err)
	}

	warnIfSlow(start)
	return tasks, nil
}

func (s *Storage) Put(ctx context.Context, taskToPut *task.Task) error {
	start := time.Now()

	query := `INSERT INTO ` + s.table + ` (id, task, status, created_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO UPDATE
				SET task = EXCLUDED.task,
					status = EXCLUDED.status,
					created_at = EXCLUDED.created_at`

	_, err := s.pool.Exec(ctx, query, taskToPut.ID, taskToPut.Text, taskToPut.Status, taskToPut.CreatedAt)
	if err != nil {
		logger.Error("Repository: Failed to put task", err, zap.Duration("ms", time.Since(start)))
		return classify("put", err)
	}

	warnIfSlow(start)
	return nil
}

// UpdateStatus does not insert: a missing row is left missing.
func (s *Storage) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	start := time.Now()

	query := `UPDATE ` + s.table + ` SET status = $1 WHERE id = $2`

	tag, err := s.pool.Exec(ctx, query, status, id)
	if err != nil {
		logger.Error("Repository: Failed to update task status", err, zap.Duration("ms", time.Since(start)))
		return classify("update", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Info("Repository: Status update matched no task", zap.String("task_id", id))
	}

	warnIfSlow(start)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	start := time.Now()

	query := `DELETE FROM ` + s.table + ` WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		logger.Error("Repository: Failed to delete task", err, zap.Duration("ms", time.Since(start)))
		return classify("delete", err)
	}

	warnIfSlow(start)
	return nil
}

func warnIfSlow(start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
}

// classify maps a pgx error onto a store error kind. Errors that never
// reached the server are connectivity problems.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "53300", "53400", "57P03":
			return repo.NewError(op, repo.KindThrottled, err)
		case "22P02", "22007", "22008":
			return repo.NewError(op, repo.KindMalformed, err)
		default:
			return repo.Wrap(op, repo.KindInternal, err)
		}
	}
	return repo.Wrap(op, repo.KindUnavailable, err)
}
