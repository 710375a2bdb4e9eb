package engine

import "errors"

// 引擎的类型化错误（对外导出）
// 调用方通过errors.Is判断错误种类，传输层据此映射HTTP状态码
var (
	// ErrInvalidArgument 创建Task时缺少必填字段，或参数非法
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound 引用的Task ID不存在
	ErrNotFound = errors.New("task not found")
	// ErrCyclicDependency 添加依赖边会构成循环（含自依赖）
	ErrCyclicDependency = errors.New("cyclic dependency")
)
