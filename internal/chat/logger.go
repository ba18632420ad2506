package chat

import (
	"log/slog"

	"github.com/wtask/termchat/internal/chat/conn"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// connLogger - logger with connection attributes.
func (s *Server) connLogger(c conn.Conn) *slog.Logger {
	remote := ""
	if addr := c.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	return s.log.With("session", c.ID(), "remote", remote)
}
