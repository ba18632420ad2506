package moderation

import (
	"fmt"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Censor masks forbidden words in chat messages.
// Matching ignores case, punctuation inside words and common leet substitutions.
// Zero Censor (or one built without words) returns text unchanged.
type Censor struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewCensor builds the automaton for words. Words that normalize to nothing are ignored.
func NewCensor(words []string, mask rune) (*Censor, error) {
	patterns := lo.FilterMap(words, func(word string, _ int) ([]rune, bool) {
		p := normalize([]rune(word))
		return p, len(p) > 0
	})
	c := &Censor{mask: mask}
	if len(patterns) == 0 {
		return c, nil
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("moderation.NewCensor: %w", err)
	}
	c.matcher = m
	return c, nil
}

// Apply returns text with every matched word replaced by the mask rune, spacing preserved.
func (c *Censor) Apply(text string) string {
	if c == nil || c.matcher == nil || text == "" {
		return text
	}
	orig := []rune(text)
	norm := make([]rune, 0, len(orig))
	index := make([]int, 0, len(orig)) // normalized position -> original position
	for i, r := range orig {
		r = simplify(r)
		if noise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		index = append(index, i)
	}
	if len(norm) == 0 {
		return text
	}

	terms := c.matcher.MultiPatternSearch(norm, false)
	if len(terms) == 0 {
		return text
	}
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(index) {
			continue
		}
		for i := index[start]; i <= index[end-1]; i++ {
			orig[i] = c.mask
		}
	}
	return string(orig)
}

func normalize(word []rune) []rune {
	out := make([]rune, 0, len(word))
	for _, r := range word {
		r = simplify(r)
		if noise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func simplify(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func noise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
