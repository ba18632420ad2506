package client

import (
	"errors"
	"fmt"

	"github.com/wtask/termchat/internal/chat/conn"
)

var (
	// ErrUnreachable - server was not reached in the given number of attempts.
	ErrUnreachable = fmt.Errorf("%w: server is unreachable", conn.ErrConnection)
	// ErrRunning - returns when Run is called for a client which is running already.
	ErrRunning = errors.New("client.Client: already running")
)
