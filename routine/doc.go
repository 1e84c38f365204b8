// Package routine 提供安全的 goroutine 执行和 panic 恢复工具。
//
// 主要功能：
//   - RunSafe/GoSafe: 自动捕获 panic 的同步/异步函数执行
//   - Recover: panic 恢复；Recovered/RecoveredError 携带堆栈信息
//
// 使用场景：
//   - 在 goroutine 中执行可能 panic 的函数（如缓存的后台写入）时，
//     使用 GoSafe 避免程序崩溃
//   - 需要把 panic 转换为 error 上报时，配合 NewRecovered 使用
package routine
