package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/task-graph/pkg/core/task"
)

// newTestRepo 创建内存数据库快照仓库
func newTestRepo(t *testing.T) *SnapshotRepo {
	t.Helper()
	repo, err := NewSnapshotRepoFromDSN(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

// TestSnapshotRepo_SaveLoad 测试快照保存与加载往返
func TestSnapshotRepo_SaveLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	createdAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	completedAt := createdAt.Add(time.Hour)
	tasks := []*task.Task{
		{
			ID:           "task-1",
			Title:        "准备环境",
			Description:  "初始化构建环境",
			Status:       task.StatusCompleted,
			Dependencies: []string{},
			Subtasks:     []string{"task-2"},
			CreatedAt:    createdAt,
			UpdatedAt:    completedAt,
			CompletedAt:  &completedAt,
		},
		{
			ID:              "task-2",
			Title:           "编译",
			Description:     "编译全部模块",
			Status:          task.StatusInProgress,
			Dependencies:    []string{"task-1"},
			Subtasks:        []string{},
			AssignedAgentID: "agent-1",
			CreatedAt:       createdAt.Add(time.Minute),
			UpdatedAt:       createdAt.Add(time.Minute),
		},
	}

	require.NoError(t, repo.Save(ctx, tasks))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// 按created_at排序
	first, second := loaded[0], loaded[1]
	assert.Equal(t, "task-1", first.ID)
	assert.Equal(t, task.StatusCompleted, first.Status)
	assert.Equal(t, []string{"task-2"}, first.Subtasks)
	require.NotNil(t, first.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(completedAt))

	assert.Equal(t, "task-2", second.ID)
	assert.Equal(t, []string{"task-1"}, second.Dependencies)
	assert.Equal(t, "agent-1", second.AssignedAgentID)
	assert.Nil(t, second.CompletedAt)
}

// TestSnapshotRepo_SaveOverwrites 测试保存整体覆盖旧快照
func TestSnapshotRepo_SaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, []*task.Task{
		{ID: "old-1", Title: "旧Task", Status: task.StatusPending, CreatedAt: now, UpdatedAt: now},
		{ID: "old-2", Title: "旧Task2", Status: task.StatusPending, CreatedAt: now, UpdatedAt: now},
	}))

	require.NoError(t, repo.Save(ctx, []*task.Task{
		{ID: "new-1", Title: "新Task", Status: task.StatusPending, CreatedAt: now, UpdatedAt: now},
	}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new-1", loaded[0].ID)
}

// TestSnapshotRepo_LoadEmpty 测试空库加载
func TestSnapshotRepo_LoadEmpty(t *testing.T) {
	repo := newTestRepo(t)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

// TestSnapshotRepo_SaveEmpty 测试保存空集合清空快照
func TestSnapshotRepo_SaveEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, []*task.Task{
		{ID: "task-1", Title: "T", Status: task.StatusPending, CreatedAt: now, UpdatedAt: now},
	}))
	require.NoError(t, repo.Save(ctx, nil))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
