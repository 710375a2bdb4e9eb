package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/task-graph/pkg/api/dto"
	"github.com/LENAX/task-graph/pkg/core/engine"
	"github.com/LENAX/task-graph/pkg/core/task"
)

// TaskHandler Task API处理器
type TaskHandler struct {
	engine *engine.Engine
}

// NewTaskHandler 创建TaskHandler
func NewTaskHandler(eng *engine.Engine) *TaskHandler {
	return &TaskHandler{engine: eng}
}

// errorStatus 将引擎的类型化错误映射为HTTP状态码
// InvalidArgument->400, NotFound->404, CyclicDependency->409, 其余->500
func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrCyclicDependency):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail 输出错误响应
func fail(c *gin.Context, err error) {
	status := errorStatus(err)
	c.JSON(status, dto.NewErrorResponse(status, err.Error()))
}

// Create 创建Task
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "请求参数错误: "+err.Error()))
		return
	}

	t, err := h.engine.Create(req.Title, req.Description, req.Dependencies)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// List 列出Task
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var query dto.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "请求参数错误: "+err.Error()))
		return
	}

	var filter engine.Filter
	if query.Status != "" {
		status := task.Status(query.Status)
		filter.Status = &status
	}
	if query.AssignedAgentID != "" {
		filter.AssignedAgentID = &query.AssignedAgentID
	}
	if query.Title != "" {
		filter.Title = &query.Title
	}

	tasks := h.engine.List(filter)
	items := dto.NewTaskViews(tasks)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.TaskView]{
		Total: len(items),
		Items: items,
	}))
}

// Get 查询Task详情
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.engine.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// Update 部分更新Task
// PATCH /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "请求参数错误: "+err.Error()))
		return
	}

	update := engine.UpdateRequest{
		Title:           req.Title,
		Description:     req.Description,
		AssignedAgentID: req.AssignedAgentID,
		Dependencies:    req.Dependencies,
		Subtasks:        req.Subtasks,
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		update.Status = &status
	}

	t, err := h.engine.Update(c.Param("id"), update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// Delete 删除Task（含级联清理引用）
// DELETE /api/v1/tasks/:id
// Task不存在不是错误，返回deleted=false
func (h *TaskHandler) Delete(c *gin.Context) {
	deleted := h.engine.Delete(c.Param("id"))
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DeleteResponse{Deleted: deleted}))
}

// AddDependency 添加依赖边
// POST /api/v1/tasks/:id/dependencies
func (h *TaskHandler) AddDependency(c *gin.Context) {
	var req dto.AddDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "请求参数错误: "+err.Error()))
		return
	}

	t, err := h.engine.AddDependency(c.Param("id"), req.DependsOnID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// RemoveDependency 移除依赖边
// DELETE /api/v1/tasks/:id/dependencies/:depId
func (h *TaskHandler) RemoveDependency(c *gin.Context) {
	t, err := h.engine.RemoveDependency(c.Param("id"), c.Param("depId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// AddSubtask 挂载子Task
// POST /api/v1/tasks/:id/subtasks
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	var req dto.AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "请求参数错误: "+err.Error()))
		return
	}

	t, err := h.engine.AddSubtask(c.Param("id"), req.ChildID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// RemoveSubtask 移除子Task
// DELETE /api/v1/tasks/:id/subtasks/:childId
func (h *TaskHandler) RemoveSubtask(c *gin.Context) {
	t, err := h.engine.RemoveSubtask(c.Param("id"), c.Param("childId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTaskView(t)))
}

// Next 获取下一个就绪Task（纯读操作，可重复调用）
// GET /api/v1/tasks/next
func (h *TaskHandler) Next(c *gin.Context) {
	t, ok := h.engine.NextTask()
	resp := dto.NextTaskResponse{Found: ok}
	if ok {
		view := dto.NewTaskView(t)
		resp.Task = &view
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Frontier 获取当前全部就绪Task
// GET /api/v1/tasks/frontier
func (h *TaskHandler) Frontier(c *gin.Context) {
	tasks := h.engine.Frontier()
	items := dto.NewTaskViews(tasks)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.TaskView]{
		Total: len(items),
		Items: items,
	}))
}

// Plan 获取依赖图的拓扑分层
// GET /api/v1/graph/plan
func (h *TaskHandler) Plan(c *gin.Context) {
	levels, err := h.engine.Plan()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PlanResponse{Levels: levels}))
}
