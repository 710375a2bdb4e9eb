// Package engine 实现Task依赖图引擎：持有Task集合、维护依赖图的无环不变量、
// 计算就绪Task（frontier）。引擎为进程内单实例存储，所有状态均为易失状态。
package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LENAX/task-graph/pkg/core/events"
	"github.com/LENAX/task-graph/pkg/core/graph"
	"github.com/LENAX/task-graph/pkg/core/task"
)

// Options 引擎外部协作者注入项（对外导出）
// 零值字段使用默认实现
type Options struct {
	NewID func() string    // ID生成器，默认uuid.NewString
	Now   func() time.Time // 时钟，默认time.Now
	Bus   *events.Bus      // 事件总线，nil表示不发布事件
}

// Engine Task依赖图引擎（对外导出）
// 所有变更操作在同一把写锁下串行执行，保证循环检测与边插入的原子性；
// 读操作共享读锁，观察到的始终是一致快照
type Engine struct {
	mu    sync.RWMutex
	tasks map[string]*task.Task
	seq   map[string]uint64 // Task ID -> 插入序号（CreatedAt相同时的确定性排序依据）
	next  uint64

	newID func() string
	now   func() time.Time
	bus   *events.Bus
}

// NewEngine 创建引擎实例（对外导出）
func NewEngine() *Engine {
	return NewEngineWithOptions(Options{})
}

// NewEngineWithOptions 创建引擎实例并注入外部协作者（对外导出）
func NewEngineWithOptions(opts Options) *Engine {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		tasks: make(map[string]*task.Task),
		seq:   make(map[string]uint64),
		newID: opts.NewID,
		now:   opts.Now,
		bus:   opts.Bus,
	}
}

// publish 发布事件（bus为nil时不发布）
// 必须在锁外调用，避免订阅方反压阻塞引擎
func (e *Engine) publish(event *events.TaskEvent) {
	if e.bus == nil {
		return
	}
	// 发布失败不影响已提交的变更，事件流是尽力而为的通知通道
	_ = e.bus.Publish(event)
}

// Create 创建Task（对外导出）
// title和description必填；dependencies为可选的已存在Task ID列表
// 新Task状态为pending，依赖列表去重后挂载（新节点不可能构成环）
func (e *Engine) Create(title, description string, dependencies []string) (*task.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("title不能为空: %w", ErrInvalidArgument)
	}
	if description == "" {
		return nil, fmt.Errorf("description不能为空: %w", ErrInvalidArgument)
	}

	e.mu.Lock()
	deps := dedup(dependencies)
	for _, depID := range deps {
		if _, ok := e.tasks[depID]; !ok {
			e.mu.Unlock()
			return nil, fmt.Errorf("依赖的Task %s 不存在: %w", depID, ErrNotFound)
		}
	}

	now := e.now()
	t := &task.Task{
		ID:           e.newID(),
		Title:        title,
		Description:  description,
		Status:       task.StatusPending,
		Dependencies: deps,
		Subtasks:     make([]string, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	e.tasks[t.ID] = t
	e.next++
	e.seq[t.ID] = e.next
	result := t.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventTaskCreated, result.ID, ""))
	return result, nil
}

// Get 查询Task（对外导出），纯读操作
func (e *Engine) Get(id string) (*task.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.tasks[id]
	if !ok {
		return nil, fmt.Errorf("Task %s 不存在: %w", id, ErrNotFound)
	}
	return t.Clone(), nil
}

// Filter 列表查询的字段等值过滤条件（对外导出）
// 非nil字段之间为AND关系
type Filter struct {
	Status          *task.Status
	AssignedAgentID *string
	Title           *string
}

// List 列出所有匹配过滤条件的Task（对外导出）
// 结果按CreatedAt排序，相同时按插入顺序，保证确定性
func (e *Engine) List(filter Filter) []*task.Task {
	e.mu.RLock()
	result := make([]*task.Task, 0, len(e.tasks))
	for _, t := range e.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedAgentID != nil && t.AssignedAgentID != *filter.AssignedAgentID {
			continue
		}
		if filter.Title != nil && t.Title != *filter.Title {
			continue
		}
		result = append(result, t.Clone())
	}
	e.sortByCreationLocked(result)
	e.mu.RUnlock()
	return result
}

// UpdateRequest 部分更新请求（对外导出）
// nil字段表示不修改；ID和CreatedAt不可变，因此不在请求结构中
type UpdateRequest struct {
	Title           *string
	Description     *string
	Status          *task.Status
	AssignedAgentID *string
	Dependencies    *[]string
	Subtasks        *[]string
}

// Update 对Task应用部分更新（对外导出）
// 状态进入completed时记录CompletedAt；设置为其他状态时清除CompletedAt；
// 替换依赖列表时重新校验存在性与无环性
func (e *Engine) Update(id string, req UpdateRequest) (*task.Task, error) {
	if req.Title != nil && *req.Title == "" {
		return nil, fmt.Errorf("title不能为空: %w", ErrInvalidArgument)
	}
	if req.Description != nil && *req.Description == "" {
		return nil, fmt.Errorf("description不能为空: %w", ErrInvalidArgument)
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("非法状态 %q: %w", *req.Status, ErrInvalidArgument)
	}

	e.mu.Lock()
	t, ok := e.tasks[id]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不存在: %w", id, ErrNotFound)
	}

	var newDeps []string
	if req.Dependencies != nil {
		newDeps = dedup(*req.Dependencies)
		for _, depID := range newDeps {
			if _, exists := e.tasks[depID]; !exists {
				e.mu.Unlock()
				return nil, fmt.Errorf("依赖的Task %s 不存在: %w", depID, ErrNotFound)
			}
		}
		// 用替换后的依赖列表构建邻接表，整体检测循环
		adj := e.adjacencyLocked()
		adj[id] = newDeps
		if cyclePath, hasCycle := graph.DetectCycle(adj); hasCycle {
			e.mu.Unlock()
			return nil, fmt.Errorf("检测到循环依赖: %v: %w", cyclePath, ErrCyclicDependency)
		}
	}

	var newSubtasks []string
	if req.Subtasks != nil {
		newSubtasks = dedup(*req.Subtasks)
		for _, childID := range newSubtasks {
			if _, exists := e.tasks[childID]; !exists {
				e.mu.Unlock()
				return nil, fmt.Errorf("子Task %s 不存在: %w", childID, ErrNotFound)
			}
		}
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.AssignedAgentID != nil {
		t.AssignedAgentID = *req.AssignedAgentID
	}
	if req.Dependencies != nil {
		t.Dependencies = newDeps
	}
	if req.Subtasks != nil {
		t.Subtasks = newSubtasks
	}

	now := e.now()
	if req.Status != nil {
		previous := t.Status
		t.Status = *req.Status
		if *req.Status == task.StatusCompleted {
			if previous != task.StatusCompleted {
				completedAt := now
				t.CompletedAt = &completedAt
			}
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now

	result := t.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventTaskUpdated, id, ""))
	return result, nil
}

// Delete 删除Task并级联清理引用（对外导出）
// 删除前从其余所有Task的dependencies和subtasks中剥离该ID（每次剥离都刷新
// 被影响Task的UpdatedAt）。整个级联在同一锁范围内完成，读方要么看到删除前
// 的完整状态，要么看到清理后的完整状态，不会看到半完成的级联。
// Task存在并删除返回true，不存在返回false（不是错误）
func (e *Engine) Delete(id string) bool {
	e.mu.Lock()
	if _, ok := e.tasks[id]; !ok {
		e.mu.Unlock()
		return false
	}

	now := e.now()
	for _, other := range e.tasks {
		if other.ID == id {
			continue
		}
		touched := false
		if other.HasDependency(id) {
			other.Dependencies = remove(other.Dependencies, id)
			touched = true
		}
		if other.HasSubtask(id) {
			other.Subtasks = remove(other.Subtasks, id)
			touched = true
		}
		if touched {
			other.UpdatedAt = now
		}
	}
	delete(e.tasks, id)
	delete(e.seq, id)
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventTaskDeleted, id, ""))
	return true
}

// AddDependency 添加依赖边 taskID -> dependsOnID（对外导出）
// 两个ID都必须存在；禁止自依赖；若dependsOnID沿现有依赖边可达taskID，
// 新边会构成环，拒绝并保持图不变。重复添加为幂等成功
func (e *Engine) AddDependency(taskID, dependsOnID string) (*task.Task, error) {
	e.mu.Lock()
	t, ok := e.tasks[taskID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不存在: %w", taskID, ErrNotFound)
	}
	if _, ok := e.tasks[dependsOnID]; !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("依赖的Task %s 不存在: %w", dependsOnID, ErrNotFound)
	}
	if taskID == dependsOnID {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不能依赖自身: %w", taskID, ErrCyclicDependency)
	}
	if t.HasDependency(dependsOnID) {
		result := t.Clone()
		e.mu.Unlock()
		return result, nil
	}
	// 循环检测与边插入在同一锁内完成，规避check-then-act竞态
	if graph.Reachable(e.adjacencyLocked(), dependsOnID, taskID) {
		e.mu.Unlock()
		return nil, fmt.Errorf("检测到循环依赖: %s -> %s: %w", taskID, dependsOnID, ErrCyclicDependency)
	}

	t.Dependencies = append(t.Dependencies, dependsOnID)
	t.UpdatedAt = e.now()
	result := t.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventDependencyAdded, taskID, dependsOnID))
	return result, nil
}

// RemoveDependency 移除依赖边（对外导出）
// taskID必须存在；边不存在时为幂等空操作（dependsOnID指向已删除Task的场景
// 与级联删除语义保持一致，同样按空操作处理）
func (e *Engine) RemoveDependency(taskID, dependsOnID string) (*task.Task, error) {
	e.mu.Lock()
	t, ok := e.tasks[taskID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不存在: %w", taskID, ErrNotFound)
	}
	if !t.HasDependency(dependsOnID) {
		result := t.Clone()
		e.mu.Unlock()
		return result, nil
	}

	t.Dependencies = remove(t.Dependencies, dependsOnID)
	t.UpdatedAt = e.now()
	result := t.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventDependencyRemoved, taskID, dependsOnID))
	return result, nil
}

// AddSubtask 将childID挂载为parentID的子Task（对外导出）
// 子Task关系仅是展示层级，不做循环检测，允许与依赖图不一致
func (e *Engine) AddSubtask(parentID, childID string) (*task.Task, error) {
	e.mu.Lock()
	parent, ok := e.tasks[parentID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不存在: %w", parentID, ErrNotFound)
	}
	if _, ok := e.tasks[childID]; !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("子Task %s 不存在: %w", childID, ErrNotFound)
	}
	if parent.HasSubtask(childID) {
		result := parent.Clone()
		e.mu.Unlock()
		return result, nil
	}

	parent.Subtasks = append(parent.Subtasks, childID)
	parent.UpdatedAt = e.now()
	result := parent.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventSubtaskAdded, parentID, childID))
	return result, nil
}

// RemoveSubtask 将childID从parentID的子Task列表中移除（对外导出）
// 关系不存在时为幂等空操作
func (e *Engine) RemoveSubtask(parentID, childID string) (*task.Task, error) {
	e.mu.Lock()
	parent, ok := e.tasks[parentID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("Task %s 不存在: %w", parentID, ErrNotFound)
	}
	if !parent.HasSubtask(childID) {
		result := parent.Clone()
		e.mu.Unlock()
		return result, nil
	}

	parent.Subtasks = remove(parent.Subtasks, childID)
	parent.UpdatedAt = e.now()
	result := parent.Clone()
	e.mu.Unlock()

	e.publish(events.NewTaskEvent(events.EventSubtaskRemoved, parentID, childID))
	return result, nil
}

// NextTask 返回下一个应被调度的Task（对外导出），纯读操作
// 调度策略：在status为pending且所有依赖均已completed的Task中，
// 返回CreatedAt最早的一个（相同时按插入顺序）。无就绪Task时返回false
func (e *Engine) NextTask() (*task.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var best *task.Task
	for _, t := range e.tasks {
		if !e.readyLocked(t) {
			continue
		}
		if best == nil || e.beforeLocked(t, best) {
			best = t
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

// Frontier 返回当前所有就绪Task（对外导出），纯读操作
// 按CreatedAt排序（相同时按插入顺序）
func (e *Engine) Frontier() []*task.Task {
	e.mu.RLock()
	result := make([]*task.Task, 0)
	for _, t := range e.tasks {
		if e.readyLocked(t) {
			result = append(result, t.Clone())
		}
	}
	e.sortByCreationLocked(result)
	e.mu.RUnlock()
	return result
}

// Plan 计算当前依赖图的拓扑分层（对外导出）
// 每一层内的Task互不依赖、可以并行执行
func (e *Engine) Plan() ([][]string, error) {
	e.mu.RLock()
	titles := make(map[string]string, len(e.tasks))
	for id, t := range e.tasks {
		titles[id] = t.Title
	}
	adj := e.adjacencyLocked()
	e.mu.RUnlock()

	d, err := graph.BuildDAG(titles, adj)
	if err != nil {
		return nil, fmt.Errorf("构建DAG失败: %w", err)
	}
	return graph.Levels(d)
}

// Snapshot 导出全部Task的副本（对外导出）
// 供持久化协作者保存快照使用，按CreatedAt排序
func (e *Engine) Snapshot() []*task.Task {
	return e.List(Filter{})
}

// Restore 从快照批量恢复Task集合（对外导出）
// 清空当前状态后整体加载；快照中的悬空引用（指向不存在Task的依赖/子Task）
// 按级联删除语义剥离；依赖图存在循环时拒绝加载
func (e *Engine) Restore(tasks []*task.Task) error {
	adj := make(graph.Adjacency, len(tasks))
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("快照中存在空ID: %w", ErrInvalidArgument)
		}
		if ids[t.ID] {
			return fmt.Errorf("快照中Task ID %s 重复: %w", t.ID, ErrInvalidArgument)
		}
		ids[t.ID] = true
		adj[t.ID] = t.Dependencies
	}
	if cyclePath, hasCycle := graph.DetectCycle(adj); hasCycle {
		return fmt.Errorf("快照中检测到循环依赖: %v: %w", cyclePath, ErrCyclicDependency)
	}

	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	e.mu.Lock()
	e.tasks = make(map[string]*task.Task, len(sorted))
	e.seq = make(map[string]uint64, len(sorted))
	e.next = 0
	for _, t := range sorted {
		cp := t.Clone()
		cp.Dependencies = keepExisting(cp.Dependencies, ids)
		cp.Subtasks = keepExisting(cp.Subtasks, ids)
		e.tasks[cp.ID] = cp
		e.next++
		e.seq[cp.ID] = e.next
	}
	e.mu.Unlock()
	return nil
}

// readyLocked 判断Task是否就绪：pending且所有依赖均已completed
// 依赖指向不存在的Task时视为未满足（正常情况下级联删除已保证不会出现）
func (e *Engine) readyLocked(t *task.Task) bool {
	if t.Status != task.StatusPending {
		return false
	}
	for _, depID := range t.Dependencies {
		dep, ok := e.tasks[depID]
		if !ok || dep.Status != task.StatusCompleted {
			return false
		}
	}
	return true
}

// beforeLocked 判断a是否应排在b之前（CreatedAt优先，相同按插入序号）
func (e *Engine) beforeLocked(a, b *task.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return e.seq[a.ID] < e.seq[b.ID]
}

// sortByCreationLocked 对副本列表按创建顺序排序
func (e *Engine) sortByCreationLocked(tasks []*task.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return e.beforeLocked(tasks[i], tasks[j])
	})
}

// adjacencyLocked 构建当前依赖图的邻接表（Task ID -> 依赖的前置Task ID列表）
func (e *Engine) adjacencyLocked() graph.Adjacency {
	adj := make(graph.Adjacency, len(e.tasks))
	for id, t := range e.tasks {
		adj[id] = append([]string(nil), t.Dependencies...)
	}
	return adj
}

// dedup 去重并保持原有顺序（依赖列表是集合语义）
func dedup(ids []string) []string {
	result := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

// remove 从列表中移除指定ID
func remove(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}

// keepExisting 仅保留仍然存在的ID（剥离悬空引用）
func keepExisting(ids []string, existing map[string]bool) []string {
	result := make([]string, 0, len(ids))
	for _, v := range ids {
		if existing[v] {
			result = append(result, v)
		}
	}
	return result
}
