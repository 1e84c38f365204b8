package routine

// RunSafe 同步执行函数 fn，自动捕获并恢复 panic。
//
// 如果 fn 发生 panic，会依次调用 cleanup 函数（如果提供），panic 值会作为参数传递。
// panic 不会向上传播，调用者可以继续执行。
func RunSafe(fn func(), cleanup ...func(r interface{})) {
	defer Recover(cleanup...)

	fn()
}

// GoSafe 在新的 goroutine 中异步执行函数 fn，自动捕获并恢复 panic。
//
// 如果 fn 发生 panic，会依次调用 cleanup 函数（如果提供），panic 值会作为参数传递。
// panic 不会导致程序崩溃，也不会向上传播。
func GoSafe(fn func(), cleanup ...func(r interface{})) {
	go RunSafe(fn, cleanup...)
}
