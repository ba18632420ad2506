// Package report renders operator-facing summaries of chat sessions.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Session - one participant's activity.
type Session struct {
	Name     string
	Remote   string
	JoinedAt time.Time
	Messages int
}

// Render writes sessions as a table. Nothing is written for nil writer.
func Render(w io.Writer, sessions []Session) {
	if w == nil {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Remote", "Joined at", "Messages"})
	table.SetAutoFormatHeaders(false)
	for _, s := range sessions {
		table.Append([]string{
			s.Name,
			s.Remote,
			s.JoinedAt.Format(time.TimeOnly),
			strconv.Itoa(s.Messages),
		})
	}
	table.SetFooter([]string{"", "", "Total", strconv.Itoa(len(sessions))})
	table.Render()
}
