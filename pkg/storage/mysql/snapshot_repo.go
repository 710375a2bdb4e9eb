package mysql

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/LENAX/task-graph/pkg/core/task"
	"github.com/LENAX/task-graph/pkg/storage/dao"
)

// SnapshotRepo 快照仓库的MySQL实现（对外导出）
type SnapshotRepo struct {
	db *sqlx.DB
}

// NewSnapshotRepo 基于已有连接创建快照仓库实例（对外导出）
func NewSnapshotRepo(db *sqlx.DB) (*SnapshotRepo, error) {
	repo := &SnapshotRepo{db: db}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return repo, nil
}

// NewSnapshotRepoFromDSN 通过DSN创建快照仓库实例（对外导出）
// DSN需携带parseTime=true以便DATETIME列映射到time.Time
func NewSnapshotRepoFromDSN(dsn string) (*SnapshotRepo, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return NewSnapshotRepo(db)
}

// initSchema 初始化数据库表结构
func (r *SnapshotRepo) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS task_snapshot (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		status VARCHAR(32) NOT NULL,
		dependencies TEXT,
		subtasks TEXT,
		assigned_agent_id VARCHAR(64),
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		completed_at DATETIME(6),
		INDEX idx_task_snapshot_created_at (created_at)
	)
	`
	if _, err := r.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Save 保存Task集合快照（整体覆盖旧快照）
func (r *SnapshotRepo) Save(ctx context.Context, tasks []*task.Task) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_snapshot"); err != nil {
		return fmt.Errorf("清空旧快照失败: %w", err)
	}

	insertSQL := `
	INSERT INTO task_snapshot
		(id, title, description, status, dependencies, subtasks, assigned_agent_id, created_at, updated_at, completed_at)
	VALUES
		(:id, :title, :description, :status, :dependencies, :subtasks, :assigned_agent_id, :created_at, :updated_at, :completed_at)
	`
	for _, t := range tasks {
		d, err := dao.FromTask(t)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertSQL, d); err != nil {
			return fmt.Errorf("写入Task %s 失败: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// Load 加载最近一次保存的Task集合快照
func (r *SnapshotRepo) Load(ctx context.Context) ([]*task.Task, error) {
	var rows []dao.TaskDAO
	query := "SELECT * FROM task_snapshot ORDER BY created_at"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for i := range rows {
		t, err := rows[i].ToTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Close 关闭数据库连接
func (r *SnapshotRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
