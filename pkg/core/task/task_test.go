package task

import (
	"testing"
	"time"
)

// TestStatus_IsValid 测试状态值合法性判断
func TestStatus_IsValid(t *testing.T) {
	valid := []Status{StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusBlocked}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("状态 %q 应该合法", s)
		}
	}

	invalid := []Status{"", "done", "PENDING", "cancelled"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("状态 %q 不应该合法", s)
		}
	}
}

// TestTask_Clone 测试深拷贝：修改副本不影响原对象
func TestTask_Clone(t *testing.T) {
	completedAt := time.Now()
	original := &Task{
		ID:           "task-1",
		Title:        "部署服务",
		Description:  "部署到生产环境",
		Status:       StatusCompleted,
		Dependencies: []string{"task-0"},
		Subtasks:     []string{"task-2"},
		CompletedAt:  &completedAt,
	}

	cp := original.Clone()
	cp.Dependencies[0] = "changed"
	cp.Subtasks[0] = "changed"
	*cp.CompletedAt = cp.CompletedAt.Add(time.Hour)

	if original.Dependencies[0] != "task-0" {
		t.Errorf("修改副本的Dependencies影响了原对象: %v", original.Dependencies)
	}
	if original.Subtasks[0] != "task-2" {
		t.Errorf("修改副本的Subtasks影响了原对象: %v", original.Subtasks)
	}
	if !original.CompletedAt.Equal(completedAt) {
		t.Errorf("修改副本的CompletedAt影响了原对象: %v", original.CompletedAt)
	}
}

// TestTask_Clone_Nil 测试nil接收者
func TestTask_Clone_Nil(t *testing.T) {
	var nilTask *Task
	if nilTask.Clone() != nil {
		t.Error("nil Task的Clone应返回nil")
	}
}

// TestTask_HasDependency 测试依赖边存在性判断
func TestTask_HasDependency(t *testing.T) {
	task := &Task{Dependencies: []string{"a", "b"}}
	if !task.HasDependency("a") {
		t.Error("应存在依赖a")
	}
	if task.HasDependency("c") {
		t.Error("不应存在依赖c")
	}
}

// TestTask_HasSubtask 测试子Task存在性判断
func TestTask_HasSubtask(t *testing.T) {
	task := &Task{Subtasks: []string{"x"}}
	if !task.HasSubtask("x") {
		t.Error("应存在子Task x")
	}
	if task.HasSubtask("y") {
		t.Error("不应存在子Task y")
	}
}
