// Package events 提供引擎变更事件的定义与事件总线
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	// Task生命周期事件
	EventTaskCreated EventType = "task.created" // Task创建
	EventTaskUpdated EventType = "task.updated" // Task更新
	EventTaskDeleted EventType = "task.deleted" // Task删除（含级联清理）

	// 依赖边事件
	EventDependencyAdded   EventType = "dependency.added"   // 依赖边添加
	EventDependencyRemoved EventType = "dependency.removed" // 依赖边移除

	// 子Task事件
	EventSubtaskAdded   EventType = "subtask.added"   // 子Task挂载
	EventSubtaskRemoved EventType = "subtask.removed" // 子Task移除

	// 调度事件
	EventTaskAssigned EventType = "task.assigned" // Task分配给Agent
)

// TaskEvent 引擎变更事件（对外导出）
type TaskEvent struct {
	ID        string    `json:"id"`                   // 事件ID（UUID）
	Type      EventType `json:"type"`                 // 事件类型
	TaskID    string    `json:"task_id"`              // 关联Task ID
	RelatedID string    `json:"related_id,omitempty"` // 关联的另一个ID（依赖/子Task/Agent）
	Timestamp time.Time `json:"timestamp"`            // 事件时间
}

// NewTaskEvent 创建引擎变更事件
func NewTaskEvent(eventType EventType, taskID, relatedID string) *TaskEvent {
	return &TaskEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    taskID,
		RelatedID: relatedID,
		Timestamp: time.Now(),
	}
}
