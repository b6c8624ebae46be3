package converter

import (
	"bufio"
	"io"

	"github.com/yuanying/epub2txt/internal/epub"
)

// TextWriter writes text blocks to a forward-only stream. Every block is
// preceded by a blank line and each of its lines ends with a newline.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter wraps w in a buffered block writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// WriteBlock writes the leading blank line and then every line of block.
func (t *TextWriter) WriteBlock(block epub.TextBlock) error {
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	for _, line := range block {
		if _, err := t.w.WriteString(line); err != nil {
			return err
		}
		if err := t.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (t *TextWriter) Flush() error {
	return t.w.Flush()
}
