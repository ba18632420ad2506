package chat

import (
	"github.com/samber/lo"

	"github.com/wtask/termchat/internal/chat/registry"
)

// Broadcast - sends event to every participant except its origin.
// Delivery is best-effort: a failed send is skipped and never stops the fan-out.
func (s *Server) Broadcast(e Event) {
	line := e.String()
	if e.IsMessage() {
		s.historyPush(line)
	}
	recipients := lo.Filter(s.registry.Snapshot(), func(p *registry.Participant, _ int) bool {
		return p.Name != e.Origin
	})
	payload := []byte(line)
	for _, p := range recipients {
		if err := p.Conn.Send(payload); err != nil {
			s.log.Debug("broadcast skipped recipient", "name", p.Name, "error", err)
		}
	}
}

// send - delivers line to single participant, failures are detected later by the liveness probe.
func (s *Server) send(p *registry.Participant, line string) {
	if err := p.Conn.Send([]byte(line)); err != nil {
		s.log.Debug("send failed", "name", p.Name, "error", err)
	}
}
