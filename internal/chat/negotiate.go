package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/message"
	"github.com/wtask/termchat/internal/chat/registry"
)

const (
	namePrompt   = "Please enter your name: "
	nameRejected = "Name entered is already in use.\n"
)

// negotiate - asks connection for unique name and promotes it to participant.
// Connection is closed and never registered when transport fails, also when ctx is cancelled.
func (s *Server) negotiate(ctx context.Context, c conn.Conn) {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	log := s.connLogger(c)
	p, err := s.claimName(c)
	if err != nil {
		log.Debug("name negotiation abandoned", "error", err)
		c.Close()
		return
	}
	log = log.With("name", p.Name)

	if err := s.greet(p); err != nil {
		log.Debug("greeting failed", "error", err)
		if s.registry.Discard(p) {
			c.Close()
		}
		return
	}
	if current, ok := s.registry.Lookup(p.Name); !ok || current != p {
		log.Debug("participant is gone before join announcement")
		return
	}
	log.Info("participant joined")
	s.Broadcast(s.actionEvent(p.Name, actionJoins))
}

// claimName - repeats prompt until connection claims free name.
// Lines following a rejected name in the same read are dropped, the peer answers the new prompt.
func (s *Server) claimName(c conn.Conn) (*registry.Participant, error) {
	inbound := message.Builder{}
	for {
		if err := c.Send([]byte(namePrompt)); err != nil {
			return nil, err
		}
		data, err := c.Receive()
		switch {
		case errors.Is(err, conn.ErrWouldBlock):
			continue
		case err != nil:
			return nil, err
		case len(data) == 0:
			return nil, errClosedByPeer
		}

		inbound.Write(data)
		lines := s.readyLines(&inbound)
		if len(lines) == 0 {
			continue
		}
		name, rest := lines[0], lines[1:]
		if _, taken := s.registry.Lookup(name); taken {
			if err := c.Send([]byte(nameRejected)); err != nil {
				return nil, err
			}
			continue
		}

		c.SetBlocking(false)
		p, err := s.registry.Insert(name, c, pendingInput(rest, &inbound)...)
		if errors.Is(err, registry.ErrNameTaken) {
			// lost the race to another negotiation
			c.SetBlocking(true)
			if err := c.Send([]byte(nameRejected)); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// pendingInput - input which followed the name in the same read, the dispatch loop handles it.
func pendingInput(lines []string, inbound *message.Builder) [][]byte {
	pending := make([][]byte, 0, len(lines)+1)
	for _, line := range lines {
		pending = append(pending, []byte(line+"\n"))
	}
	if rest := inbound.Drain(); len(rest) > 0 {
		pending = append(pending, rest)
	}
	return pending
}

// greet - sends welcome, commands, participants and recent history to the new participant.
func (s *Server) greet(p *registry.Participant) error {
	lines := []string{
		fmt.Sprintf("Welcome %s!\n", p.Name),
		commandsLine(),
		usersLine(s.registry.Names()),
	}
	lines = append(lines, s.historyTail()...)
	for _, line := range lines {
		if err := p.Conn.Send([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}
