package ui

import (
	"io"
	"strings"
)

const (
	carriageReturn = "\r"
	eraseLine      = "\x1b[2K"
	cursorUp       = "\x1b[1A"
)

// Transcript is the live region fragments are echoed to while a message streams in.
type Transcript interface {
	// Write echoes a fragment as-is, without adding a newline.
	Write(fragment string) error
	// Clear erases the lineCount lines written so far plus the active one and
	// leaves the cursor at the start of an empty line.
	Clear(lineCount int) error
}

type flusher interface {
	Flush() error
}

// ClearLines erases the current line and the lineCount lines above it, then
// returns the cursor to the start of the line.
func ClearLines(w io.Writer, lineCount int) error {
	var b strings.Builder
	if lineCount <= 0 {
		b.WriteString(carriageReturn + eraseLine + carriageReturn)
	} else {
		b.WriteString(carriageReturn)
		for i := 0; i < lineCount; i++ {
			b.WriteString(eraseLine + cursorUp)
		}
		b.WriteString(eraseLine + carriageReturn)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// TerminalTranscript echoes fragments to an ANSI terminal and redraws over them on Clear.
type TerminalTranscript struct {
	w io.Writer
}

func NewTerminalTranscript(w io.Writer) *TerminalTranscript {
	return &TerminalTranscript{w: w}
}

func (t *TerminalTranscript) Write(fragment string) error {
	if fragment == "" {
		return nil
	}
	if _, err := io.WriteString(t.w, fragment); err != nil {
		return err
	}
	if f, ok := t.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (t *TerminalTranscript) Clear(lineCount int) error {
	return ClearLines(t.w, lineCount)
}
