package message

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Builder - implements io.Writer interface to assemble text lines from received byte chunks.
// Invalid UTF-8 and control characters other than newline and tab are dropped,
// a rune split between two writes is kept until the rest of it arrives.
type Builder struct {
	reminder []byte
	str      strings.Builder
}

func (b *Builder) Write(p []byte) (n int, err error) {
	data := append(b.reminder, p...)
	b.reminder = nil

	i, size := LastValidRune(data)
	tail := len(data)
	switch {
	case i < 0:
		tail = 0
	case i+size < len(data):
		tail = i + size
	}
	if tail < len(data) && !utf8.FullRune(data[tail:]) && len(data)-tail < utf8.UTFMax {
		b.reminder = append([]byte{}, data[tail:]...)
		data = data[:tail]
	}

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		switch {
		case r == utf8.RuneError:
			// drop
		case r == '\n', r == '\t':
			b.str.WriteRune(r)
		case unicode.IsControl(r):
			// drop
		default:
			b.str.WriteRune(r)
		}
	}
	return len(p), nil
}

// Len - returns length (in bytes) of ready text.
func (b *Builder) Len() int {
	return b.str.Len()
}

// Total - return total size in bytes of underlying data.
// Total value may be grater than length of ready text.
func (b *Builder) Total() int {
	return b.Len() + len(b.reminder)
}

// Lines - returns trimmed non-empty complete lines and resets them.
// Text after the last newline stays in builder until its newline arrives.
func (b *Builder) Lines() []string {
	text := b.str.String()
	end := strings.LastIndexByte(text, '\n')
	if end < 0 {
		return nil
	}
	b.str.Reset()
	b.str.WriteString(text[end+1:])
	return split(text[:end])
}

// Drain - returns unterminated ready text together with incomplete rune bytes and resets builder.
// Result may be written into another Builder to continue assembling.
func (b *Builder) Drain() []byte {
	defer b.str.Reset()
	rest := append([]byte(b.str.String()), b.reminder...)
	b.reminder = nil
	return rest
}

// Flush - returns trimmed non-empty lines of ready text and resets it.
// Text after the last newline is returned as a line too.
func (b *Builder) Flush() []string {
	defer b.str.Reset()
	return split(b.str.String())
}

func split(text string) []string {
	return lo.FilterMap(strings.Split(text, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
}

// LastValidRune - return index and size in bytes of last well-encoded rune in given slice.
// Returns (-1, 0) if source does not contain valid unicode code points.
func LastValidRune(s []byte) (i, size int) {
	if len(s) == 0 {
		return -1, 0
	}
	return bytes.LastIndexFunc(s, func(r rune) bool {
			valid := r != utf8.RuneError && utf8.ValidRune(r)
			if valid {
				size = utf8.RuneLen(r)
			}
			return valid
		}),
		size
}
