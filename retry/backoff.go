package retry

import (
	"time"
)

// Strategy 决定每次重试前的等待时间。
type Strategy interface {
	// NextBackoff 返回第 attempt 次失败后的等待时间，attempt 从 0 开始。
	NextBackoff(attempt int) time.Duration
}

type fixedBackoff time.Duration

// FixedBackoff 每次重试等待固定时长 d。
func FixedBackoff(d time.Duration) Strategy {
	return fixedBackoff(d)
}

func (f fixedBackoff) NextBackoff(attempt int) time.Duration {
	return time.Duration(f)
}

type linearBackoff time.Duration

// LinearBackoff 等待时间随重试次数线性增长。
func LinearBackoff(d time.Duration) Strategy {
	return linearBackoff(d)
}

func (l linearBackoff) NextBackoff(attempt int) time.Duration {
	return time.Duration(l) * time.Duration(attempt+1)
}

type exponentialBackoff struct {
	baseDuration time.Duration
	maxDuration  time.Duration
}

// ExponentialBackoff 等待时间指数增长，上限为 maxDuration。
func ExponentialBackoff(baseDuration time.Duration, maxDuration time.Duration) Strategy {
	return &exponentialBackoff{
		baseDuration: baseDuration,
		maxDuration:  maxDuration,
	}
}

func (e *exponentialBackoff) NextBackoff(attempt int) time.Duration {
	d := e.baseDuration * time.Duration(1<<attempt)
	if d > e.maxDuration {
		return e.maxDuration
	}
	return d
}
