// Package client implements terminal chat client: it connects to the server, answers the name
// prompt, relays terminal lines to the server and prints everything the server sends.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gookit/color"

	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/message"
)

// Client - single chat session.
type Client struct {
	address string
	name    string

	log         *slog.Logger
	attempts    int
	backoff     time.Duration
	tick        time.Duration
	dial        Dialer
	in          io.Reader
	out         io.Writer
	colours     bool
	connOptions []conn.Option

	running atomic.Bool
}

// New - builds client of the server at address (host:port) which joins the chat as name.
func New(address, name string, options ...Option) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("client.New: name is empty")
	}
	if address == "" {
		return nil, errors.New("client.New: server address is empty")
	}
	c := &Client{
		address:  address,
		name:     name,
		log:      slog.New(slog.DiscardHandler),
		attempts: 10,
		backoff:  time.Second,
		tick:     100 * time.Millisecond,
		dial:     (&net.Dialer{}).DialContext,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			return nil, fmt.Errorf("client.New: %w", err)
		}
	}
	return c, nil
}

// Run - connects to the server and runs the session until the server is gone or ctx is cancelled.
// Only unreachable server is reported as error.
func (c *Client) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer c.running.Store(false)

	raw, err := c.connect(ctx)
	if err != nil {
		return err
	}
	stream, err := conn.New(raw, append([]conn.Option{conn.WithReadTimeout(c.tick)}, c.connOptions...)...)
	if err != nil {
		raw.Close()
		return fmt.Errorf("client.Run: %w", err)
	}
	defer stream.Close()
	stop := context.AfterFunc(ctx, func() { stream.Close() })
	defer stop()

	log := c.log.With("session", stream.ID(), "address", c.address)
	log.Info("connected")

	inbound := message.Builder{}
	named := false
	for {
		data, err := stream.Receive()
		switch {
		case errors.Is(err, conn.ErrWouldBlock):
			// server went quiet, a prompt is waiting for input
			if inbound.Len() > 0 {
				c.prompt(inbound.Flush())
			}
		case err != nil:
			if ctx.Err() == nil {
				log.Info("connection lost", "error", err)
			}
			return nil
		case len(data) == 0:
			log.Info("server has closed connection")
			return nil
		case !named:
			// the first thing server sends is the name prompt
			named = true
			if err := stream.Send([]byte(c.name + "\n")); err != nil {
				log.Info("can't send name", "error", err)
				return nil
			}
			go c.relay(stream, log)
		default:
			inbound.Write(data)
			c.print(inbound.Lines())
		}

		if err := stream.Probe(); err != nil {
			log.Info("server is gone", "error", err)
			return nil
		}
	}
}

// connect - dials the server, up to attempts times with backoff pause between attempts.
func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	var last error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		raw, err := c.dial(ctx, "tcp", c.address)
		if err == nil {
			return raw, nil
		}
		last = err
		c.log.Warn("connection attempt failed", "attempt", attempt, "address", c.address, "error", err)
		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, ctx.Err())
		case <-time.After(c.backoff):
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempt(s): %w", ErrUnreachable, c.address, c.attempts, last)
}

// relay - forwards terminal lines to the server until input ends or connection fails.
func (c *Client) relay(stream conn.Conn, log *slog.Logger) {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if err := stream.Send([]byte(scanner.Text() + "\n")); err != nil {
			log.Debug("input relay stopped", "error", err)
			return
		}
	}
	log.Debug("terminal input closed", "error", scanner.Err())
}

func (c *Client) print(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(c.out, c.render(line))
	}
}

func (c *Client) prompt(text []string) {
	fmt.Fprint(c.out, strings.Join(text, " ")+" ")
}

// render - colours timestamp of chat events and server notices.
func (c *Client) render(line string) string {
	if !c.colours {
		return line
	}
	if ts, rest, ok := strings.Cut(line, "] "); ok && strings.HasPrefix(ts, "[") {
		return color.New(color.FgGray).Render(ts+"]") + " " + rest
	}
	return color.New(color.FgCyan).Render(line)
}
