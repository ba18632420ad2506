package background

import (
	"context"
	"sync"
	"time"
)

// Scope - group of goroutines sharing one cancellation context.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScope - builds scope derived from parent context.
// Returned cancel func cancels the scope and waits all its goroutines are done.
func NewScope(parent context.Context) (scope *Scope, cancel func()) {
	ctx, cancelFunc := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancelFunc}
	return s,
		func() {
			s.cancel()
			s.wg.Wait()
		}
}

// Context - returns scope context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - runs f in new goroutine registered in scope.
// Nothing is started if scope is cancelled already, false is returned in that case.
func (s *Scope) Go(f func(ctx context.Context)) bool {
	if s.ctx.Err() != nil {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f(s.ctx)
	}()
	return true
}

// Cancel - cancels scope context without waiting.
func (s *Scope) Cancel() {
	s.cancel()
}

// Wait - waits scope goroutines are done, but not longer than timeout.
// Reports whether all goroutines have finished.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
