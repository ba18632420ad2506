package chat

// MessageHistory - interface to access ordered history of chat lines.
type MessageHistory interface {
	// Push - push new line into history
	Push(string)
	// Tail - get a number of latest lines from history in chronological order
	Tail(n int) []string
}

// Moderator - rewrites chat message bodies before they are broadcast.
type Moderator interface {
	Apply(body string) string
}

func (s *Server) historyPush(line string) {
	if s.history == nil {
		return
	}
	s.history.Push(line)
}

func (s *Server) historyTail() []string {
	if s.history == nil || s.historyGreets <= 0 {
		return nil
	}
	return s.history.Tail(s.historyGreets)
}

func (s *Server) moderate(body string) string {
	if s.moderator == nil {
		return body
	}
	return s.moderator.Apply(body)
}
