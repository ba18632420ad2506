package conn

import (
	"fmt"
	"time"
)

// Option - Stream setup option.
type Option func(s *Stream) error

// WithReadSize - overwrites max size of a single received chunk (1024 bytes by default).
func WithReadSize(size int) Option {
	return func(s *Stream) error {
		if size <= 0 {
			return fmt.Errorf("conn.WithReadSize: invalid size (%d)", size)
		}
		s.readSize = size
		return nil
	}
}

// WithReadTimeout - bounds blocking Receive, after timeout it returns ErrWouldBlock.
// Zero means wait forever.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Stream) error {
		if timeout < 0 {
			return fmt.Errorf("conn.WithReadTimeout: invalid timeout (%v)", timeout)
		}
		s.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout - overwrites write timeout in blocking mode. Zero means no deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Stream) error {
		if timeout < 0 {
			return fmt.Errorf("conn.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

// WithWriteWindow - overwrites how long non-blocking Send may wait for the socket buffer.
func WithWriteWindow(window time.Duration) Option {
	return func(s *Stream) error {
		if window <= 0 {
			return fmt.Errorf("conn.WithWriteWindow: invalid window (%v)", window)
		}
		s.writeWindow = window
		return nil
	}
}
