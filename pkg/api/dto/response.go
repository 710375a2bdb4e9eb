package dto

import (
	"time"

	"github.com/LENAX/task-graph/pkg/core/task"
)

// APIResponse 通用API响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

// TaskView Task的线上表示
// 字段名与领域模型一致（camelCase），时间为ISO-8601字符串，
// dependencies/subtasks恒为有序列表（不省略空列表）
type TaskView struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Dependencies    []string   `json:"dependencies"`
	Subtasks        []string   `json:"subtasks"`
	AssignedAgentID string     `json:"assignedAgentId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// NewTaskView 将Task实体转换为线上表示
func NewTaskView(t *task.Task) TaskView {
	view := TaskView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          string(t.Status),
		Dependencies:    t.Dependencies,
		Subtasks:        t.Subtasks,
		AssignedAgentID: t.AssignedAgentID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		CompletedAt:     t.CompletedAt,
	}
	if view.Dependencies == nil {
		view.Dependencies = make([]string, 0)
	}
	if view.Subtasks == nil {
		view.Subtasks = make([]string, 0)
	}
	return view
}

// NewTaskViews 批量转换
func NewTaskViews(tasks []*task.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t))
	}
	return views
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// NextTaskResponse 下一个就绪Task响应
// 无就绪Task不是错误，以found=false表示
type NextTaskResponse struct {
	Found bool      `json:"found"`
	Task  *TaskView `json:"task,omitempty"`
}

// PlanResponse 拓扑分层响应
// 每一层内的Task互不依赖、可以并行执行
type PlanResponse struct {
	Levels [][]string `json:"levels"`
}

// DeleteResponse 删除响应
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}
