package graph

import (
	"reflect"
	"testing"
)

// TestBuildDAG_Diamond 测试菱形依赖图的构建与分层
func TestBuildDAG_Diamond(t *testing.T) {
	titles := map[string]string{
		"a": "准备",
		"b": "编译",
		"c": "打包",
		"d": "部署",
	}
	adj := Adjacency{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}

	d, err := BuildDAG(titles, adj)
	if err != nil {
		t.Fatalf("构建DAG失败: %v", err)
	}

	levels, err := Levels(d)
	if err != nil {
		t.Fatalf("拓扑分层失败: %v", err)
	}

	expected := [][]string{
		{"a"},
		{"b", "c"},
		{"d"},
	}
	if !reflect.DeepEqual(levels, expected) {
		t.Errorf("分层结果不匹配: got=%v, want=%v", levels, expected)
	}
}

// TestBuildDAG_Cycle 测试循环图构建失败
func TestBuildDAG_Cycle(t *testing.T) {
	titles := map[string]string{"a": "A", "b": "B"}
	adj := Adjacency{
		"a": {"b"},
		"b": {"a"},
	}
	if _, err := BuildDAG(titles, adj); err == nil {
		t.Fatal("循环图构建应失败")
	}
}

// TestBuildDAG_DanglingDependency 测试悬空依赖被跳过
func TestBuildDAG_DanglingDependency(t *testing.T) {
	titles := map[string]string{"a": "A"}
	adj := Adjacency{
		"a": {"ghost"}, // ghost不在集合中
	}
	d, err := BuildDAG(titles, adj)
	if err != nil {
		t.Fatalf("悬空依赖不应导致构建失败: %v", err)
	}
	levels, err := Levels(d)
	if err != nil {
		t.Fatalf("拓扑分层失败: %v", err)
	}
	if len(levels) != 1 || len(levels[0]) != 1 || levels[0][0] != "a" {
		t.Errorf("分层结果不匹配: %v", levels)
	}
}

// TestLevels_Empty 测试空图分层
func TestLevels_Empty(t *testing.T) {
	d, err := BuildDAG(map[string]string{}, Adjacency{})
	if err != nil {
		t.Fatalf("构建空DAG失败: %v", err)
	}
	levels, err := Levels(d)
	if err != nil {
		t.Fatalf("拓扑分层失败: %v", err)
	}
	if len(levels) != 0 {
		t.Errorf("空图应得到空分层: %v", levels)
	}
}

// TestLevels_Chain 测试链式图每层一个节点
func TestLevels_Chain(t *testing.T) {
	titles := map[string]string{"a": "A", "b": "B", "c": "C"}
	adj := Adjacency{
		"b": {"a"},
		"c": {"b"},
	}
	d, err := BuildDAG(titles, adj)
	if err != nil {
		t.Fatalf("构建DAG失败: %v", err)
	}
	levels, err := Levels(d)
	if err != nil {
		t.Fatalf("拓扑分层失败: %v", err)
	}
	expected := [][]string{{"a"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(levels, expected) {
		t.Errorf("分层结果不匹配: got=%v, want=%v", levels, expected)
	}
}
