package chat

import (
	"errors"
	"fmt"

	"github.com/wtask/termchat/internal/chat/conn"
)

var (
	// ErrServing - returns when Serve is called for a server which is serving already.
	ErrServing = errors.New("chat.Server: already serving")

	errClosedByPeer = fmt.Errorf("%w: closed by peer", conn.ErrConnection)
	errQuit         = errors.New("quit command")
)
