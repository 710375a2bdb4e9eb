// Package graph 提供依赖图的可达性搜索与循环检测算法
package graph

// Adjacency 依赖图邻接表（对外导出）
// key是Task ID，value是该Task依赖的前置Task ID列表
type Adjacency map[string][]string

// Reachable 判断沿依赖边从from能否到达to（对外导出）
// 用于addDependency的循环检测：若dependsOn可达task本身，则新边会构成环
func Reachable(adj Adjacency, from, to string) bool {
	if from == to {
		return true
	}
	visited := make(map[string]bool, len(adj))
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, next := range adj[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// DetectCycle 使用DFS检测图中是否存在循环（对外导出）
// 使用三色标记法：0=白色（未访问），1=灰色（正在访问），2=黑色（已访问）
// 返回值为循环路径和是否存在循环
func DetectCycle(adj Adjacency) ([]string, bool) {
	color := make(map[string]int, len(adj))
	parent := make(map[string]string, len(adj))
	cyclePath := make([]string, 0)

	var dfs func(nodeID string) bool
	dfs = func(nodeID string) bool {
		color[nodeID] = 1

		for _, nextID := range adj[nodeID] {
			if color[nextID] == 0 {
				parent[nextID] = nodeID
				if dfs(nextID) {
					return true
				}
			} else if color[nextID] == 1 {
				// 灰色节点，说明存在后向边，检测到循环，构建循环路径
				cyclePath = append(cyclePath, nextID)
				cur := nodeID
				for cur != nextID && cur != "" {
					cyclePath = append(cyclePath, cur)
					cur = parent[cur]
				}
				cyclePath = append(cyclePath, nextID) // 闭合循环
				return true
			}
			// 黑色节点跳过（已访问且无循环）
		}

		color[nodeID] = 2
		return false
	}

	for nodeID := range adj {
		if color[nodeID] == 0 {
			if dfs(nodeID) {
				return cyclePath, true
			}
		}
	}

	return nil, false
}
