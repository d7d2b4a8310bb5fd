package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	"todoApp/internal/models/task"
	"todoApp/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id, text string) *task.Task {
	return &task.Task{
		ID:        id,
		Text:      text,
		Status:    task.StatusTodo,
		CreatedAt: time.Now().UTC(),
	}
}

func findTask(tasks []*task.Task, id string) *task.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func TestTaskStorage_PutAndScan(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	require.NoError(t, storage.Put(ctx, newTask("1", "buy milk")))
	require.NoError(t, storage.Put(ctx, newTask("2", "walk dog")))

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	got := findTask(tasks, "1")
	require.NotNil(t, got)
	assert.Equal(t, "buy milk", got.Text)
	assert.Equal(t, task.StatusTodo, got.Status)
}

func TestTaskStorage_ScanReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Put(ctx, newTask("1", "original")))

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	tasks[0].Text = "mutated"

	tasks, err = storage.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", tasks[0].Text)
}

func TestTaskStorage_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Put(ctx, newTask("1", "buy milk")))

	require.NoError(t, storage.UpdateStatus(ctx, "1", task.StatusDone))
	require.NoError(t, storage.UpdateStatus(ctx, "1", task.StatusDone))

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	got := findTask(tasks, "1")
	require.NotNil(t, got)
	assert.Equal(t, task.StatusDone, got.Status)
	assert.Equal(t, "buy milk", got.Text)
}

func TestTaskStorage_UpdateStatusMissingUpserts(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	require.NoError(t, storage.UpdateStatus(ctx, "ghost", task.StatusDone))

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	got := findTask(tasks, "ghost")
	require.NotNil(t, got)
	assert.Equal(t, task.StatusDone, got.Status)
	assert.Empty(t, got.Text)
}

func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Put(ctx, newTask("1", "buy milk")))

	require.NoError(t, storage.Delete(ctx, "1"))
	require.NoError(t, storage.Delete(ctx, "1"))
	require.NoError(t, storage.Delete(ctx, "never-existed"))

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("task-%d", i)
			assert.NoError(t, storage.Put(ctx, newTask(id, id)))
			assert.NoError(t, storage.UpdateStatus(ctx, id, task.StatusDone))
			_, err := storage.Scan(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tasks, err := storage.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)
}
