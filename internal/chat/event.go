package chat

import (
	"strings"
	"time"
)

const (
	actionJoins  = "joins"
	actionLeaves = "leaves"
)

// Event - transient chat event: a message or an action of its origin.
// Empty Origin means the event is generated by the server.
type Event struct {
	Time   time.Time
	Origin string
	Body   string
	Action string
}

// IsMessage - reports the event carries a chat message.
func (e Event) IsMessage() bool {
	return e.Action == ""
}

// String - formats event as a single protocol line.
//
//	[15:04:05] alice: hi
//	[15:04:05] alice joins
//	[15:04:05] shutting down in 5 seconds
func (e Event) String() string {
	buf := strings.Builder{}
	buf.WriteByte('[')
	buf.WriteString(e.Time.Format(time.TimeOnly))
	buf.WriteByte(']')
	if e.Origin != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.Origin)
	}
	switch {
	case e.IsMessage():
		if e.Origin != "" {
			buf.WriteByte(':')
		}
		buf.WriteByte(' ')
		buf.WriteString(strings.TrimSuffix(e.Body, "\n"))
	default:
		buf.WriteByte(' ')
		buf.WriteString(e.Action)
	}
	buf.WriteByte('\n')
	return buf.String()
}

func (s *Server) messageEvent(origin, body string) Event {
	return Event{Time: s.now(), Origin: origin, Body: body}
}

func (s *Server) actionEvent(origin, action string) Event {
	return Event{Time: s.now(), Origin: origin, Action: action}
}
