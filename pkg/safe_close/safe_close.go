// Package safe_close 提供服务组件的优雅关闭协调
// 各组件通过 Attach 注册关闭处理器，收到关闭信号后并发执行并等待全部完成
package safe_close

import (
	"sync"
)

// SafeClose 优雅关闭协调器
type SafeClose struct {
	mu sync.Mutex

	closeSignal chan struct{}
	closeOnce   sync.Once
	closeErr    error

	wg sync.WaitGroup
}

// NewSafeClose 创建 SafeClose 实例
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个关闭处理器
// f 在独立 goroutine 中运行，必须在完成时调用 done
// closeSignal 关闭时被 close，处理器应监听它并执行清理
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal 发送关闭信号
// err 为触发关闭的错误，可以为 nil（正常关闭）
func (s *SafeClose) SendCloseSignal(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closeErr = err
		s.mu.Unlock()
		close(s.closeSignal)
	})
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed 阻塞等待所有关闭处理器完成
// 返回触发关闭的错误（正常关闭时为 nil）
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}
