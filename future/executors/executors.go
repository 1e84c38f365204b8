// Package executors 提供 future.Executor 的常用实现。
package executors

// GoExecutor 为每个任务启动一个新的 goroutine。
type GoExecutor struct{}

func (GoExecutor) Submit(f func()) {
	go f()
}

// PoolExecutor 用信号量限制同时运行的任务数。
type PoolExecutor struct {
	sem chan struct{}
}

func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	return &PoolExecutor{
		sem: make(chan struct{}, maxWorkers),
	}
}

func (p *PoolExecutor) Submit(f func()) {
	p.sem <- struct{}{}
	go func() {
		defer func() { <-p.sem }()
		f()
	}()
}
