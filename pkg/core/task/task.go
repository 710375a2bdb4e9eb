package task

import "time"

// Status Task状态类型（对外导出）
type Status string

const (
	StatusPending    Status = "pending"     // 等待调度
	StatusInProgress Status = "in_progress" // 执行中
	StatusCompleted  Status = "completed"   // 已完成
	StatusFailed     Status = "failed"      // 执行失败
	StatusBlocked    Status = "blocked"     // 被阻塞
)

// IsValid 判断状态值是否合法（对外导出）
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusBlocked:
		return true
	}
	return false
}

// Task 任务实体（对外导出）
// 引擎是Task的唯一持有者和唯一修改者，外部组件只能拿到副本（通过Clone），
// 不允许直接修改引擎内部的Task字段
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          Status     `json:"status"`
	Dependencies    []string   `json:"dependencies"`              // 依赖的Task ID集合（必须全部completed后本Task才就绪）
	Subtasks        []string   `json:"subtasks"`                  // 子Task ID有序列表（仅组织层级，与依赖图无关）
	AssignedAgentID string     `json:"assignedAgentId,omitempty"` // 分配的Agent ID（对引擎而言仅为信息字段）
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"` // 仅在状态进入completed时设置
}

// Clone 深拷贝Task（对外导出）
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	cp.Subtasks = append([]string(nil), t.Subtasks...)
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		cp.CompletedAt = &completedAt
	}
	return &cp
}

// HasDependency 判断是否已存在指定依赖边
func (t *Task) HasDependency(id string) bool {
	return contains(t.Dependencies, id)
}

// HasSubtask 判断是否已存在指定子Task
func (t *Task) HasSubtask(id string) bool {
	return contains(t.Subtasks, id)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
