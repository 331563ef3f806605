package ui

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearLines(t *testing.T) {
	tests := []struct {
		name      string
		lineCount int
		want      string
		cleared   int
	}{
		{"no newline clears the active line only", 0, "\r\x1b[2K\r", 1},
		{"one newline clears two lines", 1, "\r\x1b[2K\x1b[1A\x1b[2K\r", 2},
		{"three newlines clear four lines", 3, "\r" + strings.Repeat("\x1b[2K\x1b[1A", 3) + "\x1b[2K\r", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ClearLines(&buf, tt.lineCount))

			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, tt.cleared, strings.Count(buf.String(), eraseLine))
			assert.Equal(t, tt.lineCount, strings.Count(buf.String(), cursorUp))
		})
	}
}

func TestClearLines_FlushesBufferedWriters(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	require.NoError(t, ClearLines(w, 2))

	assert.Equal(t, 0, w.Buffered())
	assert.Equal(t, 2, strings.Count(out.String(), cursorUp))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminalTranscript(t *testing.T) {
	t.Run("should echo fragments verbatim", func(t *testing.T) {
		var buf bytes.Buffer
		tr := NewTerminalTranscript(&buf)

		require.NoError(t, tr.Write("{\n  \"title\""))
		require.NoError(t, tr.Write(": \"x\",\n\n"))
		require.NoError(t, tr.Write(""))

		assert.Equal(t, "{\n  \"title\": \"x\",\n\n", buf.String())
	})

	t.Run("should erase the given lines plus the active one", func(t *testing.T) {
		var buf bytes.Buffer
		tr := NewTerminalTranscript(&buf)
		require.NoError(t, tr.Write("a\nb\nc"))
		buf.Reset()

		require.NoError(t, tr.Clear(2))

		assert.Equal(t, 3, strings.Count(buf.String(), eraseLine))
		assert.Equal(t, 2, strings.Count(buf.String(), cursorUp))
	})

	t.Run("should propagate writer failures", func(t *testing.T) {
		tr := NewTerminalTranscript(failingWriter{})

		assert.Error(t, tr.Write("x"))
		assert.Error(t, tr.Clear(1))
	})
}
