package routine

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Recover 恢复当前 goroutine 的 panic，并依次调用 cleanups。
// 必须通过 defer 调用。
func Recover(cleanups ...func(r interface{})) {
	if r := recover(); r != nil {
		for _, cleanup := range cleanups {
			cleanup(r)
		}
	}
}

// Recovered 携带一次 panic 的值和发生时的调用栈。
type Recovered struct {
	Value   interface{}
	Callers []uintptr
}

// NewRecovered 捕获当前调用栈并包装 panic 值。
// skip 为跳过的栈帧数，0 表示从 NewRecovered 的调用方开始。
func NewRecovered(skip int, value interface{}) *Recovered {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	return &Recovered{
		Value:   value,
		Callers: callers[:n],
	}
}

// AsError 将 Recovered 转换为 error。nil 接收者返回 nil。
func (p *Recovered) AsError() error {
	if p == nil {
		return nil
	}
	return &RecoveredError{p}
}

// RecoveredError 是 Recovered 的 error 形式，兼容 pkg/errors 的堆栈打印。
type RecoveredError struct {
	*Recovered
}

func (e *RecoveredError) Error() string {
	return fmt.Sprintf("panic: %v\nstacktrace:%+v", e.Value, e.StackTrace())
}

func (e *RecoveredError) StackTrace() errors.StackTrace {
	if e == nil {
		return nil
	}
	frames := make([]errors.Frame, len(e.Callers))
	for i, pc := range e.Callers {
		frames[i] = errors.Frame(pc)
	}
	return frames
}
