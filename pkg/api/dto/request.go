package dto

// CreateTaskRequest 创建Task请求
type CreateTaskRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Dependencies []string `json:"dependencies" binding:"omitempty"`
}

// UpdateTaskRequest 部分更新Task请求
// 未出现的字段不修改；id与createdAt不可变，不在请求中
type UpdateTaskRequest struct {
	Title           *string   `json:"title" binding:"omitempty"`
	Description     *string   `json:"description" binding:"omitempty"`
	Status          *string   `json:"status" binding:"omitempty,oneof=pending in_progress completed failed blocked"`
	AssignedAgentID *string   `json:"assignedAgentId" binding:"omitempty"`
	Dependencies    *[]string `json:"dependencies" binding:"omitempty"`
	Subtasks        *[]string `json:"subtasks" binding:"omitempty"`
}

// AddDependencyRequest 添加依赖边请求
type AddDependencyRequest struct {
	DependsOnID string `json:"dependsOnId" binding:"required"`
}

// AddSubtaskRequest 挂载子Task请求
type AddSubtaskRequest struct {
	ChildID string `json:"childId" binding:"required"`
}

// ListTasksQuery Task列表查询参数
type ListTasksQuery struct {
	Status          string `form:"status" binding:"omitempty,oneof=pending in_progress completed failed blocked"`
	AssignedAgentID string `form:"assignedAgentId" binding:"omitempty"`
	Title           string `form:"title" binding:"omitempty"`
}
