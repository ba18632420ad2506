//go:generate go run go.uber.org/mock/mockgen -source=conn.go -destination=../../mocks/mock_conn.go -package=mocks
package conn

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Conn - single transport endpoint of the chat.
type Conn interface {
	// ID - session identifier, unique per accepted connection.
	ID() string
	RemoteAddr() net.Addr
	// Send - writes p to the peer, fails with ErrConnection.
	Send(p []byte) error
	// Receive - returns received bytes. Empty result with nil error means the peer has closed the stream.
	// In non-blocking mode ErrWouldBlock is returned when no data is pending.
	Receive() ([]byte, error)
	// Probe - zero-length write to check the peer is still reachable.
	Probe() error
	SetBlocking(blocking bool)
	Close() error
}

// Stream - Conn implementation over net.Conn.
//
// A reader goroutine pumps socket reads into a buffered channel,
// so non-blocking Receive never touches the socket.
type Stream struct {
	id  string
	raw net.Conn

	readSize     int
	readTimeout  time.Duration
	writeTimeout time.Duration
	writeWindow  time.Duration

	blocking atomic.Bool

	wmu     sync.Mutex
	inbound chan []byte
	done    chan struct{} // closed when reader exits, readErr is set before
	readErr error

	closeOnce sync.Once
	closed    chan struct{}
}

// New - wraps raw connection and starts to read from it in background.
// Stream starts in blocking mode.
func New(raw net.Conn, options ...Option) (*Stream, error) {
	if raw == nil {
		return nil, errors.New("conn.New: net connection is nil")
	}
	s := &Stream{
		id:           uuid.NewString(),
		raw:          raw,
		readSize:     1024,
		writeTimeout: 30 * time.Second,
		writeWindow:  50 * time.Millisecond,
		inbound:      make(chan []byte, 16),
		done:         make(chan struct{}),
		closed:       make(chan struct{}),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return nil, err
		}
	}
	s.blocking.Store(true)
	go s.pump()
	return s, nil
}

func (s *Stream) ID() string { return s.id }

func (s *Stream) RemoteAddr() net.Addr { return s.raw.RemoteAddr() }

// SetBlocking - switches Receive and Send between blocking and non-blocking behaviour.
func (s *Stream) SetBlocking(blocking bool) { s.blocking.Store(blocking) }

// Blocking - reports current mode.
func (s *Stream) Blocking() bool { return s.blocking.Load() }

func (s *Stream) pump() {
	defer close(s.done)
	buf := make([]byte, s.readSize)
	for {
		n, err := s.raw.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.inbound <- chunk:
			case <-s.closed:
				s.readErr = net.ErrClosed
				return
			}
		}
		if err != nil {
			s.readErr = err
			return
		}
	}
}

func (s *Stream) Receive() ([]byte, error) {
	select {
	case p := <-s.inbound:
		return p, nil
	default:
	}

	var timeout <-chan time.Time
	switch {
	case !s.blocking.Load():
		select {
		case <-s.done:
			return s.drained()
		default:
			return nil, ErrWouldBlock
		}
	case s.readTimeout > 0:
		t := time.NewTimer(s.readTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case p := <-s.inbound:
		return p, nil
	case <-s.done:
		return s.drained()
	case <-timeout:
		return nil, ErrWouldBlock
	}
}

// drained - result of Receive after the reader has exited.
// Chunks pushed before exit are still delivered first.
func (s *Stream) drained() ([]byte, error) {
	select {
	case p := <-s.inbound:
		return p, nil
	default:
	}
	if errors.Is(s.readErr, io.EOF) {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrConnection, s.readErr)
}

func (s *Stream) Send(p []byte) error {
	select {
	case <-s.closed:
		return fmt.Errorf("%w: %w", ErrConnection, net.ErrClosed)
	default:
	}

	timeout := s.writeTimeout
	if !s.blocking.Load() {
		timeout = s.writeWindow
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := s.raw.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if _, err := s.raw.Write(p); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

func (s *Stream) Probe() error {
	return s.Send(nil)
}

// Close - closes underlying connection, safe to call several times.
func (s *Stream) Close() error {
	err := net.ErrClosed
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.raw.Close()
	})
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
