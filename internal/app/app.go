// Package app assembles chat server and client from loaded configuration.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/wtask/termchat/internal/chat"
	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/history"
	"github.com/wtask/termchat/internal/client"
	"github.com/wtask/termchat/internal/config"
	"github.com/wtask/termchat/internal/moderation"
)

// NewServer - chat server configured by cfg, the session report goes to report when it is not nil.
func NewServer(cfg config.Server, log *slog.Logger, report io.Writer) (*chat.Server, error) {
	options := []chat.Option{
		chat.WithLogger(log),
		chat.WithTick(cfg.Tick),
		chat.WithShutdownDelay(cfg.ShutdownDelay),
		chat.WithLineLimit(4 * cfg.ReadSize),
		chat.WithConnOptions(
			conn.WithReadSize(cfg.ReadSize),
			conn.WithReadTimeout(cfg.NameTimeout),
			conn.WithWriteTimeout(cfg.WriteTimeout),
		),
	}
	if cfg.HistoryGreets > 0 {
		stack, err := history.NewStack(cfg.HistoryGreets)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
		}
		options = append(options, chat.WithMessageHistory(stack, cfg.HistoryGreets))
	}
	if words := cfg.Words(); len(words) > 0 {
		censor, err := moderation.NewCensor(words, cfg.Mask())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
		}
		options = append(options, chat.WithModerator(censor))
	}
	if report != nil {
		options = append(options, chat.WithReport(report))
	}
	return chat.NewServer(options...)
}

// NewClient - chat client of the server at bind configured by cfg.
func NewClient(bind config.Bind, name string, cfg config.Client, log *slog.Logger, in io.Reader, out io.Writer) (*client.Client, error) {
	return client.New(bind.String(), name,
		client.WithLogger(log),
		client.WithRetries(cfg.ConnectRetries, cfg.ConnectBackoff),
		client.WithColours(cfg.Colours),
		client.WithTerminal(in, out),
	)
}
