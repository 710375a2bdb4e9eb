// Package storage 定义引擎快照的持久化接口
// 引擎本身是纯内存存储（spec层面不要求跨重启持久化），
// 快照仓库作为外部协作者，在进程启停时保存/恢复Task集合
package storage

import (
	"context"

	"github.com/LENAX/task-graph/pkg/core/task"
)

// SnapshotRepository 快照仓库接口（对外导出）
type SnapshotRepository interface {
	// Save 保存Task集合快照（整体覆盖旧快照）
	Save(ctx context.Context, tasks []*task.Task) error
	// Load 加载最近一次保存的Task集合快照
	Load(ctx context.Context) ([]*task.Task, error)
	// Close 关闭底层连接
	Close() error
}
