package conn

import "errors"

var (
	// ErrWouldBlock - returns by non-blocking operations when nothing is available right now.
	// It is not a failure, the caller should retry on the next tick.
	ErrWouldBlock = errors.New("conn: operation would block")

	// ErrConnection - returns when the peer is gone or unreachable.
	// The wrapped error holds the transport cause.
	ErrConnection = errors.New("conn: connection failed")
)
