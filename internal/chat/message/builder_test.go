package message

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestLastValidRune(t *testing.T) {
	cases := []struct {
		data       []byte
		expI, expS int
	}{
		{[]byte{}, -1, 0},
		{[]byte("⌘"), 0, 3},                          // "⌘": []byte{226, 140, 152}
		{[]byte{226, 140}, -1, 0},                    // invalid sequence
		{[]byte{226, 140, 226, 140, 152}, 2, 3},      // there are invalid sequences
		{[]byte{226, 140, 226, 140, 152, 226}, 2, 3}, // there are invalid sequences
		{[]byte{226, 140, '!'}, 2, 1},
		{[]byte("Hello, 世界"), 10, utf8.RuneLen('界')},
		{[]byte("Hello, 世界!"), 13, utf8.RuneLen('!')},
	}

	for _, c := range cases {
		actI, actS := LastValidRune(c.data)
		if actI != c.expI || actS != c.expS {
			t.Errorf("Data: %[1]v, %[1]q; expected: %d, %d; actual: %d, %d", c.data, c.expI, c.expS, actI, actS)
		}
	}
}

func TestBuilder_SplitRune(t *testing.T) {
	req := require.New(t)
	builder := Builder{}
	req.Zero(builder.Len())
	req.Empty(builder.Flush())

	content := []byte("Hello Builder!")
	builder.Write(content)
	cpoint := []byte{226, 140, 152} // ⌘
	// write incomplete unicode sequence
	builder.Write(cpoint[:2])
	req.Equal(len(content)+2, builder.Total())
	req.Equal([]string{string(content)}, builder.Flush())

	// the rest of the rune arrives, Builder remembers previous bytes
	builder.Write(cpoint[2:])
	req.Equal([]string{string(cpoint)}, builder.Flush())
}

func TestBuilder_Flush(t *testing.T) {
	cases := []struct {
		name     string
		chunks   []string
		expected []string
	}{
		{"single line", []string{"hi\n"}, []string{"hi"}},
		{"no terminator", []string{"!users"}, []string{"!users"}},
		{"crlf and padding", []string{"  !quit \r\n"}, []string{"!quit"}},
		{"several lines in one chunk", []string{"one\ntwo\n\nthree\n"}, []string{"one", "two", "three"}},
		{"line over two chunks", []string{"hel", "lo\n"}, []string{"hello"}},
		{"only whitespace", []string{" \t\n\n"}, []string{}},
		{"tabs preserved", []string{"col1\tcol2\n"}, []string{"col1\tcol2"}},
		{"non-breaking space preserved", []string{"a\u00a0b\n"}, []string{"a\u00a0b"}},
		{"vertical tab dropped", []string{"a\vb\n"}, []string{"ab"}},
		{"control chars dropped", []string{"a\x07b\x00c\n"}, []string{"abc"}},
		{"invalid bytes dropped", []string{"ok\xff\xfe!\n"}, []string{"ok!"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			builder := Builder{}
			for _, chunk := range c.chunks {
				builder.Write([]byte(chunk))
			}
			lines := builder.Flush()
			if len(c.expected) == 0 {
				require.Empty(t, lines)
				return
			}
			require.Equal(t, c.expected, lines)
		})
	}
}

func TestBuilder_Lines(t *testing.T) {
	req := require.New(t)
	builder := Builder{}

	builder.Write([]byte("hel"))
	req.Empty(builder.Lines())
	req.Equal(3, builder.Len())

	builder.Write([]byte("lo\nwor"))
	req.Equal([]string{"hello"}, builder.Lines())
	req.Equal(3, builder.Len())

	builder.Write([]byte("ld\n\n  \n!users\n"))
	req.Equal([]string{"world", "!users"}, builder.Lines())
	req.Zero(builder.Len())

	builder.Write([]byte("tail"))
	req.Equal([]string{"tail"}, builder.Flush())
}

func TestBuilder_Drain(t *testing.T) {
	req := require.New(t)
	builder := Builder{}
	cpoint := []byte("⌘")
	builder.Write(append([]byte("one\nhel "), cpoint[:1]...))
	req.Equal([]string{"one"}, builder.Lines())

	rest := builder.Drain()
	req.Equal(append([]byte("hel "), cpoint[:1]...), rest)
	req.Zero(builder.Total())

	next := Builder{}
	next.Write(rest)
	next.Write(append(cpoint[1:], '\n'))
	req.Equal([]string{"hel ⌘"}, next.Lines())
}
