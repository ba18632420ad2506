package history

import (
	"fmt"
	"sync"
)

// Stack - keeps a limited number of latest chat lines.
// When stack length reaches max value, the oldest line is dropped on every push.
type Stack struct {
	max  int
	mu   sync.RWMutex
	data []string
}

// NewStack - builds history stack.
func NewStack(max int) (*Stack, error) {
	if max <= 0 {
		return nil, fmt.Errorf("history.NewStack: max (%d) must be greater than 0", max)
	}
	return &Stack{max: max, data: make([]string, 0, max)}, nil
}

// Len - returns number of kept lines.
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Push - adds line to history.
func (s *Stack) Push(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == s.max {
		copy(s.data, s.data[1:])
		s.data = s.data[:s.max-1]
	}
	s.data = append(s.data, line)
}

// Tail - makes copy of last n lines in chronological order.
func (s *Stack) Tail(n int) []string {
	if n < 0 {
		n = -n
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.data) {
		n = len(s.data)
	}
	tail := make([]string, n)
	copy(tail, s.data[len(s.data)-n:])
	return tail
}
