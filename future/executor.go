package future

import "github.com/saltfishpr/asynccache/future/executors"

// Executor 定义了执行异步任务的抽象。
//
// 默认情况下使用标准 goroutine（executors.GoExecutor{}）执行任务，
// 轻量且没有并发限制。可以通过 SetExecutor 覆盖默认执行器，
// 常见的模式是用 ExecutorFunc 包装一个 goroutine 池：
//
//	pool := executors.NewPoolExecutor(100)
//	future.SetExecutor(pool)
//
// 替换默认执行器可用于限制并发、重用 goroutine 或减少 GC 压力。
// 注意：缓存层的底层 fetch 都经由执行器运行，池化的执行器可能导致
// 任务排队，覆盖前请先评估工作负载。
//
// 向 SetExecutor 传递 nil 会 panic。
type Executor interface {
	Submit(func())
}

// ExecutorFunc 将普通函数适配为 Executor。
type ExecutorFunc func(func())

func (e ExecutorFunc) Submit(f func()) {
	e(f)
}

var executor Executor = executors.GoExecutor{}

// SetExecutor 覆盖进程级默认执行器。
func SetExecutor(e Executor) {
	if e == nil {
		panic("executor is nil")
	}
	executor = e
}
