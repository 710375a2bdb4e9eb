// Package dispatch 实现分配组件：周期性查询引擎的下一个就绪Task，
// 绑定到Agent并推进状态。状态迁移的合法性由调用方（本组件）负责，
// 引擎本身不做迁移校验
package dispatch

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/LENAX/task-graph/pkg/core/engine"
	"github.com/LENAX/task-graph/pkg/core/events"
	"github.com/LENAX/task-graph/pkg/core/task"
)

// Dispatcher 定时分配器（对外导出）
type Dispatcher struct {
	engine   *engine.Engine
	pool     *AgentPool
	bus      *events.Bus
	cronExpr string

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	running bool
}

// NewDispatcher 创建定时分配器（对外导出）
// cronExpr支持秒级精度（六段表达式）
func NewDispatcher(eng *engine.Engine, pool *AgentPool, bus *events.Bus, cronExpr string) *Dispatcher {
	return &Dispatcher{
		engine:   eng,
		pool:     pool,
		bus:      bus,
		cronExpr: cronExpr,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时分配（对外导出）
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("分配器已启动")
	}

	// 验证Cron表达式（使用Parser支持秒级精度）
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(d.cronExpr); err != nil {
		return fmt.Errorf("Cron表达式非法 %q: %w", d.cronExpr, err)
	}

	entry, err := d.cron.AddFunc(d.cronExpr, func() {
		if _, ok := d.DispatchOnce(); !ok {
			return
		}
	})
	if err != nil {
		return fmt.Errorf("注册定时分配任务失败: %w", err)
	}
	d.entry = entry
	d.cron.Start()
	d.running = true
	log.Printf("⏰ 分配器已启动, cron=%s", d.cronExpr)
	return nil
}

// Stop 停止定时分配（对外导出）
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.cron.Remove(d.entry)
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.running = false
	log.Println("🛑 分配器已停止")
}

// DispatchOnce 执行一次分配（对外导出）
// 取出最早就绪的Task，绑定轮询选出的Agent并置为in_progress；
// 没有就绪Task或没有可用Agent时返回false
func (d *Dispatcher) DispatchOnce() (*task.Task, bool) {
	next, ok := d.engine.NextTask()
	if !ok {
		return nil, false
	}
	agentID, ok := d.pool.Next()
	if !ok {
		return nil, false
	}

	status := task.StatusInProgress
	updated, err := d.engine.Update(next.ID, engine.UpdateRequest{
		Status:          &status,
		AssignedAgentID: &agentID,
	})
	if err != nil {
		// Task可能在NextTask和Update之间被并发删除，下个周期重试即可
		log.Printf("分配Task %s 失败: %v", next.ID, err)
		return nil, false
	}

	if d.bus != nil {
		_ = d.bus.Publish(events.NewTaskEvent(events.EventTaskAssigned, updated.ID, agentID))
	}
	log.Printf("📦 Task %s (%s) 已分配给Agent %s", updated.ID, updated.Title, agentID)
	return updated, true
}
