package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/wtask/termchat/internal/chat/conn"
	"github.com/wtask/termchat/internal/chat/registry"
	"github.com/wtask/termchat/internal/report"
	"github.com/wtask/termchat/pkg/background"
)

// negotiatorsGrace - how long stopping server waits for cancelled name negotiations.
const negotiatorsGrace = time.Second

// Server - chat server over any net.Listener implementation.
//
// Single dispatch loop services all named participants on a fixed tick,
// every new connection negotiates its name in own goroutine.
type Server struct {
	log           *slog.Logger
	now           func() time.Time
	tick          time.Duration
	shutdownDelay time.Duration
	connOptions   []conn.Option
	history       MessageHistory
	historyGreets int
	moderator     Moderator
	report        io.Writer
	lineLimit     int

	registry *registry.Registry
	serving  atomic.Bool
}

// NewServer - builds chat server with given options.
func NewServer(options ...Option) (*Server, error) {
	s := &Server{
		log:           discardLogger(),
		now:           time.Now,
		tick:          100 * time.Millisecond,
		shutdownDelay: 5 * time.Second,
		lineLimit:     4 * 1024,
		registry:      registry.New(),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return nil, fmt.Errorf("chat.NewServer: %w", err)
		}
	}
	return s, nil
}

// Participants - returns sorted names of current participants.
func (s *Server) Participants() []string {
	return s.registry.Names()
}

// Serve - runs dispatch loop over listener until ctx is cancelled,
// then notifies participants, waits shutdown delay and closes everything including listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("chat.Server: listener is nil")
	}
	if !s.serving.CompareAndSwap(false, true) {
		return ErrServing
	}
	defer s.serving.Store(false)

	s.log.Info("serving", "address", listener.Addr().String(), "tick", s.tick)

	accepted := make(chan net.Conn, 64)
	acceptor, stopAcceptor := background.NewScope(context.Background())
	acceptor.Go(func(ctx context.Context) { s.acceptConnections(ctx, listener, accepted) })
	negotiators, stopNegotiators := background.NewScope(context.Background())

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			break
		}
		s.acceptPhase(accepted, negotiators)
		s.servicePhase()
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	s.shutdown()

	listener.Close()
	stopAcceptor()
	close(accepted)
	for raw := range accepted {
		raw.Close()
	}
	negotiators.Cancel()
	if !negotiators.Wait(negotiatorsGrace) {
		s.log.Warn("name negotiations are still running")
	}
	go stopNegotiators()

	s.log.Info("stopped")
	return nil
}

// acceptConnections - blocks in Accept and hands connections over to the dispatch loop.
func (s *Server) acceptConnections(ctx context.Context, listener net.Listener, accepted chan<- net.Conn) {
	for {
		raw, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.tick):
			}
			continue
		}
		select {
		case accepted <- raw:
		case <-ctx.Done():
			raw.Close()
			return
		}
	}
}

// shutdown - notifies participants, waits shutdown delay and closes all participant connections.
func (s *Server) shutdown() {
	seconds := int(math.Round(s.shutdownDelay.Seconds()))
	s.log.Info("shutting down", "delay", s.shutdownDelay)
	s.Broadcast(s.actionEvent("", fmt.Sprintf("shutting down in %d seconds", seconds)))
	time.Sleep(s.shutdownDelay)

	participants := s.registry.Snapshot()
	report.Render(s.report, lo.Map(participants, func(p *registry.Participant, _ int) report.Session {
		remote := ""
		if addr := p.Conn.RemoteAddr(); addr != nil {
			remote = addr.String()
		}
		return report.Session{Name: p.Name, Remote: remote, JoinedAt: p.JoinedAt, Messages: p.Messages}
	}))
	for _, p := range participants {
		p.Conn.Close()
		s.registry.Discard(p)
	}
}
