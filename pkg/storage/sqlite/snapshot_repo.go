package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/LENAX/task-graph/pkg/core/task"
	"github.com/LENAX/task-graph/pkg/storage/dao"
)

// SnapshotRepo 快照仓库的SQLite实现（对外导出）
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
func NewSnapshotRepoFromDSN(dsn string) (*SnapshotRepo, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	if err := configureSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("配置SQLite失败: %w", err)
	}
	return NewSnapshotRepo(db)
}

// configureSQLite 配置SQLite数据库连接
func configureSQLite(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=30000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

// initSchema 初始化数据库表结构
func (r *SnapshotRepo) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS task_snapshot (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		dependencies TEXT,
		subtasks TEXT,
		assigned_agent_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		completed_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_task_snapshot_created_at ON task_snapshot(created_at);
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
