package dispatch

import "sync"

// AgentPool Agent工作者池（对外导出）
// 引擎只记录assignedAgentId字符串，Agent身份本身由外部系统管理，
// 这里维护一份可用Agent ID列表并做轮询分配
type AgentPool struct {
	mu     sync.Mutex
	agents []string
	cursor int
}

// NewAgentPool 创建Agent池
func NewAgentPool(agents []string) *AgentPool {
	return &AgentPool{
		agents: append([]string(nil), agents...),
	}
}

// Register 注册Agent（重复注册为空操作）
func (p *AgentPool) Register(agentID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range p.agents {
		if id == agentID {
			return
		}
	}
	p.agents = append(p.agents, agentID)
}

// Unregister 注销Agent
func (p *AgentPool) Unregister(agentID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, id := range p.agents {
		if id == agentID {
			p.agents = append(p.agents[:i], p.agents[i+1:]...)
			if p.cursor > i {
				p.cursor--
			}
			return
		}
	}
}

// Next 轮询取出下一个Agent ID
// 池为空时返回false
func (p *AgentPool) Next() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.agents) == 0 {
		return "", false
	}
	if p.cursor >= len(p.agents) {
		p.cursor = 0
	}
	agentID := p.agents[p.cursor]
	p.cursor++
	return agentID, true
}

// Size 当前Agent数量
func (p *AgentPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.agents)
}
