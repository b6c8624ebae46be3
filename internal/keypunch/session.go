// Package keypunch implements a typing drill over the paragraphs of a text
// file.
package keypunch

import (
	"fmt"
	"slices"
	"strings"
)

// Paragraphs splits content into lines, trims them and drops blank ones.
func Paragraphs(content string) []string {
	var paragraphs []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// Session tracks the paragraph being typed and the input so far.
//
// Paragraph numbers are 1-based. Once a paragraph is typed in full, or
// skipped, the next one is loaded; after the last paragraph the session
// stays on it.
type Session struct {
	name       string
	paragraphs []string

	num     int
	target  []rune
	input   []rune
	advance bool
}

// NewSession starts a drill over the paragraphs of content. Content without
// any text gets a single placeholder paragraph.
func NewSession(name, content string) *Session {
	paragraphs := Paragraphs(content)
	if len(paragraphs) == 0 {
		paragraphs = []string{fmt.Sprintf("Empty content in file [%s]", name)}
	}
	s := &Session{name: name, paragraphs: paragraphs, advance: true}
	s.next()
	return s
}

// next loads the following paragraph when the current one is finished.
func (s *Session) next() {
	if !s.advance || s.num >= len(s.paragraphs) {
		return
	}
	s.target = []rune(s.paragraphs[s.num])
	s.num++
	s.input = s.input[:0]
	s.advance = false
}

func (s *Session) checkComplete() {
	if slices.Equal(s.target, s.input) {
		s.advance = true
	}
	s.next()
}

// Type appends r to the input unless the paragraph is already filled.
func (s *Session) Type(r rune) {
	if len(s.input) < len(s.target) {
		s.input = append(s.input, r)
	}
	s.checkComplete()
}

// Hint types the next character of the paragraph.
func (s *Session) Hint() {
	if len(s.input) < len(s.target) {
		s.input = append(s.input, s.target[len(s.input)])
	}
	s.checkComplete()
}

// Backspace removes the last typed character.
func (s *Session) Backspace() {
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
}

// Back removes the last typed character. With nothing typed it returns to
// the end of the previous paragraph, leaving its last character to type.
func (s *Session) Back() {
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
		return
	}
	if s.num <= 1 {
		return
	}
	s.num--
	s.target = []rune(s.paragraphs[s.num-1])
	s.input = append(s.input[:0], s.target[:len(s.target)-1]...)
	s.advance = false
}

// Clear drops the whole input of the current paragraph.
func (s *Session) Clear() {
	s.input = s.input[:0]
}

// Previous restarts the previous paragraph.
func (s *Session) Previous() {
	if s.num <= 1 {
		return
	}
	s.num--
	s.target = []rune(s.paragraphs[s.num-1])
	s.input = s.input[:0]
	s.advance = false
}

// Skip moves on to the next paragraph without typing the current one.
func (s *Session) Skip() {
	if s.num < len(s.paragraphs) {
		s.advance = true
	}
	s.next()
}

func (s *Session) Name() string   { return s.name }
func (s *Session) Number() int    { return s.num }
func (s *Session) Total() int     { return len(s.paragraphs) }
func (s *Session) Target() []rune { return s.target }
func (s *Session) Input() []rune  { return s.input }

// Done reports whether the last paragraph has been typed in full.
func (s *Session) Done() bool {
	return s.num == len(s.paragraphs) && slices.Equal(s.target, s.input)
}

// PreviousParagraph returns the paragraph before the current one.
func (s *Session) PreviousParagraph() (string, bool) {
	if s.num <= 1 {
		return "", false
	}
	return s.paragraphs[s.num-2], true
}

// NextParagraph returns the paragraph after the current one.
func (s *Session) NextParagraph() (string, bool) {
	if s.num >= len(s.paragraphs) {
		return "", false
	}
	return s.paragraphs[s.num], true
}
