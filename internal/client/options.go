package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/termchat/internal/chat/conn"
)

// Option - Client setup option.
type Option func(c *Client) error

// Dialer - opens transport connection to the server.
type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

// WithLogger - attaches structured logger. Client is silent by default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) error {
		if log == nil {
			return errors.New("client.WithLogger: logger is nil")
		}
		c.log = log
		return nil
	}
}

// WithRetries - overwrites connection attempts (10) and the pause between them (1s).
func WithRetries(attempts int, backoff time.Duration) Option {
	return func(c *Client) error {
		if attempts < 1 {
			return fmt.Errorf("client.WithRetries: invalid attempts value (%d)", attempts)
		}
		if backoff < 0 {
			return fmt.Errorf("client.WithRetries: invalid backoff (%v)", backoff)
		}
		c.attempts = attempts
		c.backoff = backoff
		return nil
	}
}

// WithTick - overwrites receive cycle interval (100ms by default).
func WithTick(tick time.Duration) Option {
	return func(c *Client) error {
		if tick <= 0 {
			return fmt.Errorf("client.WithTick: invalid tick value (%v)", tick)
		}
		c.tick = tick
		return nil
	}
}

// WithDialer - overwrites transport dialer, net.Dialer by default.
func WithDialer(dial Dialer) Option {
	return func(c *Client) error {
		if dial == nil {
			return errors.New("client.WithDialer: dialer is nil")
		}
		c.dial = dial
		return nil
	}
}

// WithTerminal - overwrites source of outgoing lines (stdin) and destination of incoming ones (stdout).
func WithTerminal(in io.Reader, out io.Writer) Option {
	return func(c *Client) error {
		if in == nil || out == nil {
			return errors.New("client.WithTerminal: input and output are required")
		}
		c.in = in
		c.out = out
		return nil
	}
}

// WithColours - enables colouring of printed lines.
func WithColours(enabled bool) Option {
	return func(c *Client) error {
		c.colours = enabled
		return nil
	}
}

// WithConnOptions - options applied to the server connection.
func WithConnOptions(options ...conn.Option) Option {
	return func(c *Client) error {
		c.connOptions = append(c.connOptions, options...)
		return nil
	}
}
