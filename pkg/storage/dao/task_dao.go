package dao

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LENAX/task-graph/pkg/core/task"
)

// TaskDAO Task快照表的数据访问对象（内部使用）
// dependencies和subtasks以JSON数组形式存入TEXT列
type TaskDAO struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Status          string         `db:"status"`
	Dependencies    string         `db:"dependencies"`      // JSON数组
	Subtasks        string         `db:"subtasks"`          // JSON数组
	AssignedAgentID sql.NullString `db:"assigned_agent_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	CompletedAt     sql.NullTime   `db:"completed_at"`
}

// FromTask 将Task实体转换为DAO（对外导出）
func FromTask(t *task.Task) (*TaskDAO, error) {
	deps, err := json.Marshal(t.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("序列化dependencies失败: %w", err)
	}
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return nil, fmt.Errorf("序列化subtasks失败: %w", err)
	}

	d := &TaskDAO{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Dependencies: string(deps),
		Subtasks:     string(subtasks),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.AssignedAgentID != "" {
		d.AssignedAgentID = sql.NullString{String: t.AssignedAgentID, Valid: true}
	}
	if t.CompletedAt != nil {
		d.CompletedAt = sql.NullTime{Time: *t.CompletedAt, Valid: true}
	}
	return d, nil
}

// ToTask 将DAO还原为Task实体（对外导出）
func (d *TaskDAO) ToTask() (*task.Task, error) {
	t := &task.Task{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Status:       task.Status(d.Status),
		Dependencies: make([]string, 0),
		Subtasks:     make([]string, 0),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Dependencies != "" {
		if err := json.Unmarshal([]byte(d.Dependencies), &t.Dependencies); err != nil {
			return nil, fmt.Errorf("解析dependencies失败: %w", err)
		}
	}
	if d.Subtasks != "" {
		if err := json.Unmarshal([]byte(d.Subtasks), &t.Subtasks); err != nil {
			return nil, fmt.Errorf("解析subtasks失败: %w", err)
		}
	}
	if d.AssignedAgentID.Valid {
		t.AssignedAgentID = d.AssignedAgentID.String
	}
	if d.CompletedAt.Valid {
		completedAt := d.CompletedAt.Time
		t.CompletedAt = &completedAt
	}
	return t, nil
}
