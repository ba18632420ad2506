package chat

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wtask/termchat/internal/chat/conn"
)

// Option - Server setup option.
type Option func(s *Server) error

// WithLogger - attaches structured logger. Server is silent by default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) error {
		if log == nil {
			return errors.New("chat.WithLogger: logger is nil")
		}
		s.log = log
		return nil
	}
}

// WithTick - overwrites dispatch loop interval (100ms by default).
func WithTick(tick time.Duration) Option {
	return func(s *Server) error {
		if tick <= 0 {
			return fmt.Errorf("chat.WithTick: invalid tick value (%v)", tick)
		}
		s.tick = tick
		return nil
	}
}

// WithShutdownDelay - overwrites the delay between shutdown notice and closing of connections (5s by default).
func WithShutdownDelay(delay time.Duration) Option {
	return func(s *Server) error {
		if delay < 0 {
			return fmt.Errorf("chat.WithShutdownDelay: invalid delay (%v)", delay)
		}
		s.shutdownDelay = delay
		return nil
	}
}

// WithClock - overwrites time source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) error {
		if now == nil {
			return errors.New("chat.WithClock: clock is nil")
		}
		s.now = now
		return nil
	}
}

// WithConnOptions - options applied to every accepted connection.
func WithConnOptions(options ...conn.Option) Option {
	return func(s *Server) error {
		s.connOptions = append(s.connOptions, options...)
		return nil
	}
}

// WithMessageHistory - keeps chat lines in history and greets every new participant
// with the latest greets lines of it.
func WithMessageHistory(history MessageHistory, greets int) Option {
	return func(s *Server) error {
		if history == nil {
			return errors.New("chat.WithMessageHistory: history is nil")
		}
		if greets < 0 {
			return fmt.Errorf("chat.WithMessageHistory: invalid greets value (%d)", greets)
		}
		s.history = history
		s.historyGreets = greets
		return nil
	}
}

// WithModerator - rewrites chat messages before broadcasting.
func WithModerator(m Moderator) Option {
	return func(s *Server) error {
		if m == nil {
			return errors.New("chat.WithModerator: moderator is nil")
		}
		s.moderator = m
		return nil
	}
}

// WithReport - writes the table of remaining sessions into w when server stops.
func WithReport(w io.Writer) Option {
	return func(s *Server) error {
		if w == nil {
			return errors.New("chat.WithReport: writer is nil")
		}
		s.report = w
		return nil
	}
}

// WithLineLimit - overwrites max size in bytes of unterminated input (4KiB by default),
// longer input is taken as a complete line.
func WithLineLimit(limit int) Option {
	return func(s *Server) error {
		if limit <= 0 {
			return fmt.Errorf("chat.WithLineLimit: invalid limit (%d)", limit)
		}
		s.lineLimit = limit
		return nil
	}
}
