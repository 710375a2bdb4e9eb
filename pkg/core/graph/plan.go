package graph

import (
	"fmt"
	"sort"

	dag "github.com/begmaroman/go-dag"
)

// Node DAG节点（对外导出），实现go-dag的Identifiable接口
type Node struct {
	TaskID string // Task ID
	Title  string // Task标题
}

// ID 实现Identifiable接口
func (n *Node) ID() string {
	return n.TaskID
}

// BuildDAG 从Task集合和依赖关系构建go-dag实例（对外导出）
// titles: Task ID -> 标题的映射
// adj: 后置Task ID -> 前置Task ID列表的映射
// 边方向为 前置Task -> 后置Task
func BuildDAG(titles map[string]string, adj Adjacency) (*dag.DAG[*Node], error) {
	// 先用三色DFS一次性检测循环，避免go-dag在每次AddEdge时重复递归检查
	if cyclePath, hasCycle := DetectCycle(adj); hasCycle {
		return nil, fmt.Errorf("检测到循环依赖: %v", cyclePath)
	}

	d := dag.NewDAG[*Node]()
	for taskID, title := range titles {
		if _, err := d.AddVertex(&Node{TaskID: taskID, Title: title}); err != nil {
			return nil, fmt.Errorf("添加节点失败: Task ID=%s, Error=%w", taskID, err)
		}
	}

	for taskID, depIDs := range adj {
		for _, depID := range depIDs {
			if _, err := d.GetVertex(depID); err != nil {
				// 依赖的Task不在集合中，跳过（与级联删除语义一致）
				continue
			}
			if err := d.AddEdge(depID, taskID); err != nil {
				return nil, fmt.Errorf("添加边失败: %s -> %s, Error=%w", depID, taskID, err)
			}
		}
	}

	return d, nil
}

// Levels 对DAG执行Kahn拓扑排序（对外导出）
// 返回分层结果，每一层内的Task互不依赖、可以并行执行；层内按ID排序保证确定性
func Levels(d *dag.DAG[*Node]) ([][]string, error) {
	vertices := d.GetVertices()

	// 1. 计算每个节点的入度
	inDegree := make(map[string]int, len(vertices))
	for id := range vertices {
		parents, err := d.GetParents(id)
		if err != nil {
			return nil, fmt.Errorf("获取父节点失败: %s, Error=%w", id, err)
		}
		inDegree[id] = len(parents)
	}

	// 2. 找出所有入度为0的节点（根节点）
	queue := make([]string, 0)
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	// 3. 不断移除入度为0的节点，并更新其子节点的入度
	levels := make([][]string, 0)
	processed := 0
	for len(queue) > 0 {
		sort.Strings(queue)
		currentLevel := append([]string(nil), queue...)
		nextQueue := make([]string, 0)

		for _, nodeID := range queue {
			processed++
			children, err := d.GetChildren(nodeID)
			if err != nil {
				return nil, fmt.Errorf("获取子节点失败: %s, Error=%w", nodeID, err)
			}
			for childID := range children {
				inDegree[childID]--
				if inDegree[childID] == 0 {
					nextQueue = append(nextQueue, childID)
				}
			}
		}

		levels = append(levels, currentLevel)
		queue = nextQueue
	}

	// 4. 检查是否所有节点都被处理（理论上构建时已排除循环）
	if processed != len(vertices) {
		return nil, fmt.Errorf("拓扑排序失败：存在未处理的节点（可能存在环）")
	}

	return levels, nil
}
