package future

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPromise_Succeed(t *testing.T) {
	p := NewPromise[int]()
	f := p.Future()

	assert.Equal(t, StatePending, f.State())
	assert.True(t, p.Succeed(42))
	assert.Equal(t, StateSucceeded, f.State())

	val, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestPromise_Fail(t *testing.T) {
	wantErr := errors.New("backend down")
	p := NewPromise[int]()
	assert.True(t, p.Fail(wantErr))

	_, err := p.Future().Get()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, StateFailed, p.Future().State())
}

func TestPromise_Cancel(t *testing.T) {
	p := NewPromise[int]()
	assert.True(t, p.Cancel())

	_, err := p.Future().Get()
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StateCancelled, p.Future().State())
}

func TestPromise_ResolutionIsFinal(t *testing.T) {
	t.Run("succeed then succeed", func(t *testing.T) {
		p := NewPromise[int]()
		require.True(t, p.Succeed(1))
		assert.False(t, p.Succeed(2))

		val, err := p.Future().Get()
		require.NoError(t, err)
		assert.Equal(t, 1, val)
	})

	t.Run("succeed then fail then cancel", func(t *testing.T) {
		p := NewPromise[string]()
		require.True(t, p.Succeed("kept"))
		assert.False(t, p.Fail(errors.New("late")))
		assert.False(t, p.Cancel())

		val, err := p.Future().Get()
		require.NoError(t, err)
		assert.Equal(t, "kept", val)
	})

	t.Run("fail then succeed", func(t *testing.T) {
		wantErr := errors.New("first")
		p := NewPromise[int]()
		require.True(t, p.Fail(wantErr))
		assert.False(t, p.Succeed(7))

		_, err := p.Future().Get()
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestFuture_ObserverAfterResolution(t *testing.T) {
	p := NewPromise[int]()
	p.Succeed(5)

	got := 0
	p.Future().OnSuccess(func(v int) { got = v })
	assert.Equal(t, 5, got)
}

func TestFuture_ObserverFiresExactlyOnce(t *testing.T) {
	p := NewPromise[int]()
	p.Succeed(1)
	f := p.Future()

	var first, second int32
	f.OnSuccess(func(int) { atomic.AddInt32(&first, 1) })
	f.OnSuccess(func(int) { atomic.AddInt32(&second, 1) })

	assert.Equal(t, int32(1), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))
}

func TestFuture_OnlyMatchingBucketFires(t *testing.T) {
	p := NewPromise[int]()
	f := p.Future()

	var succeeded, failed, cancelled bool
	var completion *Result[int]
	f.OnSuccess(func(int) { succeeded = true }).
		OnFailure(func(error) { failed = true }).
		OnCancel(func() { cancelled = true }).
		OnCompletion(func(r Result[int]) { completion = &r })

	wantErr := errors.New("nope")
	p.Fail(wantErr)

	assert.False(t, succeeded)
	assert.True(t, failed)
	assert.False(t, cancelled)
	require.NotNil(t, completion)
	assert.True(t, completion.Failed())
	assert.ErrorIs(t, completion.Err(), wantErr)
}

func TestFuture_ObserverOrderWithinBucket(t *testing.T) {
	p := NewPromise[int]()
	f := p.Future()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		f.OnSuccess(func(int) { order = append(order, i) })
	}
	p.Succeed(0)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFuture_ChainedRegistrationDoesNotDeadlock(t *testing.T) {
	// An observer that synchronously registers on another Future must not
	// deadlock, because observers run outside the state lock.
	p1 := NewPromise[int]()
	p2 := NewPromise[int]()

	done := make(chan int, 1)
	p1.Future().OnSuccess(func(v int) {
		p2.Future().OnSuccess(func(w int) {
			done <- v + w
		})
		p2.Succeed(v * 10)
	})
	p1.Succeed(4)

	select {
	case got := <-done:
		assert.Equal(t, 44, got)
	case <-time.After(time.Second):
		t.Fatal("chained observers did not fire")
	}
}

func TestFuture_ConcurrentObserversFireExactlyOnce(t *testing.T) {
	const n = 100
	p := NewPromise[int]()
	f := p.Future()

	var fired int32
	var wg sync.WaitGroup
	wg.Add(n + 1)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			f.OnCompletion(func(Result[int]) {
				atomic.AddInt32(&fired, 1)
			})
		}()
	}
	go func() {
		defer wg.Done()
		p.Succeed(1)
	}()
	wg.Wait()

	// Every observer registered before or after resolution fires once.
	assert.Equal(t, int32(n), atomic.LoadInt32(&fired))
}

func TestPromise_Mimic(t *testing.T) {
	t.Run("forwards success", func(t *testing.T) {
		src := NewPromise[string]()
		dst := NewPromise[string]()
		dst.Mimic(src.Future())

		src.Succeed("mimicked")
		val, err := dst.Future().Get()
		require.NoError(t, err)
		assert.Equal(t, "mimicked", val)
	})

	t.Run("forwards failure", func(t *testing.T) {
		wantErr := errors.New("source failed")
		src := NewPromise[string]()
		dst := NewPromise[string]()
		dst.Mimic(src.Future())

		src.Fail(wantErr)
		_, err := dst.Future().Get()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("forwards cancellation", func(t *testing.T) {
		src := NewPromise[string]()
		dst := NewPromise[string]()
		dst.Mimic(src.Future())

		src.Cancel()
		assert.Equal(t, StateCancelled, dst.Future().State())
	})

	t.Run("already terminal source", func(t *testing.T) {
		dst := NewPromise[int]()
		dst.Mimic(Done(9))
		val, err := dst.Future().Get()
		require.NoError(t, err)
		assert.Equal(t, 9, val)
	})
}

func TestThen(t *testing.T) {
	t.Run("maps success", func(t *testing.T) {
		f := Then(Done(10), func(v int) (string, error) {
			return strconv.Itoa(v * 2), nil
		})
		val, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, "20", val)
	})

	t.Run("propagates failure", func(t *testing.T) {
		wantErr := errors.New("upstream")
		called := false
		f := Then(Failed[int](wantErr), func(int) (int, error) {
			called = true
			return 0, nil
		})
		_, err := f.Get()
		assert.ErrorIs(t, err, wantErr)
		assert.False(t, called)
	})

	t.Run("propagates cancellation", func(t *testing.T) {
		f := Then(Cancelled[int](), func(int) (int, error) { return 0, nil })
		assert.Equal(t, StateCancelled, f.State())
	})

	t.Run("callback error fails", func(t *testing.T) {
		wantErr := errors.New("mapping broke")
		f := Then(Done(1), func(int) (int, error) { return 0, wantErr })
		_, err := f.Get()
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestThenFuture(t *testing.T) {
	f := ThenFuture(Done(2), func(v int) *Future[int] {
		return Done(v * 3)
	})
	val, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 6, val)

	wantErr := errors.New("inner")
	f = ThenFuture(Done(1), func(int) *Future[int] {
		return Failed[int](wantErr)
	})
	_, err = f.Get()
	assert.ErrorIs(t, err, wantErr)
}

func TestAll(t *testing.T) {
	t.Run("collects in order", func(t *testing.T) {
		f1 := Async(func() (int, error) {
			time.Sleep(20 * time.Millisecond)
			return 1, nil
		})
		f2 := Done(2)
		f3 := Async(func() (int, error) { return 3, nil })

		vals, err := All(f1, f2, f3).Get()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, vals)
	})

	t.Run("first failure wins", func(t *testing.T) {
		wantErr := errors.New("broken")
		_, err := All(Done(1), Failed[int](wantErr)).Get()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("empty", func(t *testing.T) {
		vals, err := All[int]().Get()
		require.NoError(t, err)
		assert.Nil(t, vals)
	})
}

func TestTimeout(t *testing.T) {
	t.Run("expires", func(t *testing.T) {
		p := NewPromise[int]()
		f := Timeout(p.Future(), 10*time.Millisecond)
		_, err := f.Get()
		assert.ErrorIs(t, err, ErrTimeout)
		// Unblock nothing: p stays pending, which is fine.
		p.Cancel()
	})

	t.Run("completes in time", func(t *testing.T) {
		f := Timeout(Done("fast"), time.Second)
		val, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, "fast", val)
	})
}

func TestAsync(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := Async(func() (string, error) { return "done", nil })
		val, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, "done", val)
	})

	t.Run("panic becomes ErrPanic", func(t *testing.T) {
		f := Async(func() (int, error) { panic("boom") })
		_, err := f.Get()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestGetContext(t *testing.T) {
	p := NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Future().GetContext(ctx)
	assert.Error(t, err)
	assert.Equal(t, StatePending, p.Future().State())
	p.Cancel()
}
