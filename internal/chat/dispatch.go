package chat

import (
	"context"
	"errors"
	"net"

	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/message"
	"github.com/wtask/termchat/internal/chat/registry"
	"github.com/wtask/termchat/pkg/background"
)

// acceptPhase - drains connections accepted since previous tick and starts name negotiation for each.
func (s *Server) acceptPhase(accepted <-chan net.Conn, negotiators *background.Scope) {
	for {
		select {
		case raw := <-accepted:
			s.startNegotiation(raw, negotiators)
		default:
			return
		}
	}
}

func (s *Server) startNegotiation(raw net.Conn, negotiators *background.Scope) {
	c, err := conn.New(raw, s.connOptions...)
	if err != nil {
		s.log.Error("can't wrap connection", "remote", raw.RemoteAddr().String(), "error", err)
		raw.Close()
		return
	}
	s.connLogger(c).Debug("connection accepted")
	if !negotiators.Go(func(ctx context.Context) { s.negotiate(ctx, c) }) {
		c.Close()
	}
}

// servicePhase - services every participant from stable snapshot.
func (s *Server) servicePhase() {
	for _, p := range s.registry.Snapshot() {
		s.service(p)
	}
}

// service - handles pending input of participant, then probes its connection.
func (s *Server) service(p *registry.Participant) {
	data, err := p.Conn.Receive()
	switch {
	case errors.Is(err, conn.ErrWouldBlock):
	case err != nil:
		s.reap(p, err)
		return
	case len(data) == 0:
		s.reap(p, errClosedByPeer)
		return
	default:
		p.Inbound.Write(data)
	}

	for _, line := range s.readyLines(&p.Inbound) {
		if !s.handleLine(p, line) {
			return
		}
	}

	if err := p.Conn.Probe(); err != nil {
		s.reap(p, err)
	}
}

// readyLines - complete lines of inbound, unterminated text longer than line limit is taken as a line too.
func (s *Server) readyLines(inbound *message.Builder) []string {
	lines := inbound.Lines()
	if inbound.Len() > s.lineLimit {
		lines = append(lines, inbound.Flush()...)
	}
	return lines
}

// handleLine - executes command or broadcasts chat message.
// Returns false when the participant is gone.
func (s *Server) handleLine(p *registry.Participant, line string) bool {
	command, ok := lookupCommand(line)
	if !ok {
		p.Messages++
		s.Broadcast(s.messageEvent(p.Name, s.moderate(line)))
		return true
	}

	switch command {
	case CommandQuit:
		s.reap(p, errQuit)
		return false
	case CommandListUsers:
		s.send(p, usersLine(s.registry.Names()))
	case CommandListCommands:
		s.send(p, commandsLine())
	}
	return true
}

// reap - closes connection, removes participant and announces it has left.
// The announcement is made once, by the call which actually removed participant.
func (s *Server) reap(p *registry.Participant, cause error) {
	p.Conn.Close()
	if !s.registry.Discard(p) {
		return
	}
	s.connLogger(p.Conn).Info("participant left", "name", p.Name, "cause", cause)
	s.Broadcast(s.actionEvent(p.Name, actionLeaves))
}
