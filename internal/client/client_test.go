package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wtask/termchat/internal/chat/conn"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeServer - accepts single connection and hands it over to the test.
func fakeServer(t *testing.T) (string, <-chan net.Conn) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })
	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := listener.Accept()
		if err != nil {
			close(accepted)
			return
		}
		t.Cleanup(func() { c.Close() })
		accepted <- c
	}()
	return listener.Addr().String(), accepted
}

func TestNew(t *testing.T) {
	req := require.New(t)
	_, err := New("localhost:9000", "  ")
	req.Error(err)
	_, err = New("", "alice")
	req.Error(err)

	c, err := New("localhost:9000", " alice ")
	req.NoError(err)
	req.Equal("alice", c.name)
	req.Equal(10, c.attempts)
	req.Equal(time.Second, c.backoff)

	for _, option := range []Option{
		WithLogger(nil),
		WithRetries(0, time.Second),
		WithRetries(1, -time.Second),
		WithTick(0),
		WithDialer(nil),
		WithTerminal(nil, io.Discard),
	} {
		_, err := New("localhost:9000", "alice", option)
		req.Error(err)
	}
}

func TestClient_Run_Session(t *testing.T) {
	req := require.New(t)
	address, accepted := fakeServer(t)
	input, typing := io.Pipe()
	t.Cleanup(func() { typing.Close() })
	output := &lockedBuffer{}

	c, err := New(address, "alice",
		WithTick(10*time.Millisecond),
		WithTerminal(input, output),
	)
	req.NoError(err)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	server := <-accepted
	req.NotNil(server)
	reader := bufio.NewReader(server)
	server.SetDeadline(time.Now().Add(2 * time.Second))

	_, err = server.Write([]byte("Please enter your name: "))
	req.NoError(err)
	name, err := reader.ReadString('\n')
	req.NoError(err)
	req.Equal("alice\n", name)

	_, err = server.Write([]byte("Welcome alice!\n[12:00:00] bob: hi\n[12:00:01] bob leaves\n"))
	req.NoError(err)
	req.Eventually(func() bool {
		return output.String() == "Welcome alice!\n[12:00:00] bob: hi\n[12:00:01] bob leaves\n"
	}, time.Second, 5*time.Millisecond)

	_, err = typing.Write([]byte("hello there\n"))
	req.NoError(err)
	line, err := reader.ReadString('\n')
	req.NoError(err)
	req.Equal("hello there\n", line)

	server.Close()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("client is still running")
	}
}

func TestClient_Run_ShowsPendingPrompt(t *testing.T) {
	req := require.New(t)
	address, accepted := fakeServer(t)
	output := &lockedBuffer{}
	c, err := New(address, "alice",
		WithTick(10*time.Millisecond),
		WithTerminal(strings.NewReader(""), output),
	)
	req.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	server := <-accepted
	req.NotNil(server)
	server.Write([]byte("Please enter your name: "))
	reader := bufio.NewReader(server)
	_, err = reader.ReadString('\n')
	req.NoError(err)

	server.Write([]byte("Name entered is already in use.\nPlease enter your name: "))
	req.Eventually(func() bool {
		return output.String() == "Name entered is already in use.\nPlease enter your name: "
	}, time.Second, 5*time.Millisecond)

	cancel()
	req.NoError(<-done)
}

func TestClient_Run_Unreachable(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	dial := func(context.Context, string, string) (net.Conn, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	}
	c, err := New("localhost:1", "alice", WithDialer(dial), WithRetries(3, time.Millisecond))
	req.NoError(err)

	err = c.Run(context.Background())
	req.ErrorIs(err, ErrUnreachable)
	req.ErrorIs(err, conn.ErrConnection)
	req.EqualValues(3, calls.Load())
}

func TestClient_Run_RetriesUntilServerIsUp(t *testing.T) {
	req := require.New(t)
	address, accepted := fakeServer(t)
	var calls atomic.Int32
	dialer := &net.Dialer{}
	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		return dialer.DialContext(ctx, network, addr)
	}
	c, err := New(address, "alice",
		WithDialer(dial),
		WithRetries(5, time.Millisecond),
		WithTick(10*time.Millisecond),
		WithTerminal(strings.NewReader(""), io.Discard),
	)
	req.NoError(err)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	server := <-accepted
	req.NotNil(server)
	req.EqualValues(3, calls.Load())
	server.Close()
	req.NoError(<-done)
}

func TestClient_Run_Cancelled(t *testing.T) {
	req := require.New(t)
	c, err := New("localhost:1", "alice",
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}),
		WithRetries(10, time.Hour),
	)
	req.NoError(err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req.ErrorIs(c.Run(ctx), ErrUnreachable)
}

func TestClient_render(t *testing.T) {
	req := require.New(t)
	c, err := New("localhost:9000", "alice")
	req.NoError(err)
	req.Equal("[12:00:00] bob: hi", c.render("[12:00:00] bob: hi"))

	c.colours = true
	req.Contains(c.render("[12:00:00] bob: hi"), "bob: hi")
	req.Contains(c.render("Welcome alice!"), "Welcome alice!")
}
