package ollama

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/gitwhisper/gitwhisper/internal/ui"
)

// Assembler rebuilds the model answer from the raw body chunks of a streamed
// chat response. Each complete line is one JSON event; the content fragments
// are echoed to the transcript and concatenated into RawJSON. The result does
// not depend on how the body was split into chunks.
//
// An Assembler serves a single generation and is not safe for concurrent use.
type Assembler struct {
	transcript ui.Transcript
	onFirst    func()

	pending   []byte
	remainder string
	raw       strings.Builder
	lineCount int
	fragments int
	usage     *models.TokenUsage
}

func NewAssembler(t ui.Transcript) *Assembler {
	return &Assembler{transcript: t}
}

// OnFirstFragment registers fn to run right before the first fragment is echoed.
func (a *Assembler) OnFirstFragment(fn func()) {
	a.onFirst = fn
}

// Feed appends a chunk and handles every line it completes. Invalid UTF-8 is
// replaced with U+FFFD, but a character cut in half by the chunk boundary is
// kept back until the next chunk completes it.
func (a *Assembler) Feed(chunk []byte) error {
	data := chunk
	if len(a.pending) > 0 {
		data = append(a.pending, chunk...)
		a.pending = nil
	}

	if cut := incompleteTail(data); cut < len(data) {
		a.pending = append([]byte(nil), data[cut:]...)
		data = data[:cut]
	}

	a.remainder += strings.ToValidUTF8(string(data), string(utf8.RuneError))

	for {
		i := strings.IndexByte(a.remainder, '\n')
		if i < 0 {
			return nil
		}
		line := a.remainder[:i]
		a.remainder = a.remainder[i+1:]
		if err := a.handleLine(line); err != nil {
			return err
		}
	}
}

// Finish handles whatever is left once the body is exhausted: held-back bytes
// and a last line without a trailing newline.
func (a *Assembler) Finish() error {
	if len(a.pending) > 0 {
		a.remainder += strings.ToValidUTF8(string(a.pending), string(utf8.RuneError))
		a.pending = nil
	}

	line := a.remainder
	a.remainder = ""
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return a.handleLine(line)
}

func (a *Assembler) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var ev models.StreamEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return domainErrors.ErrFraming.WithError(err).WithContext("line", line)
	}

	if ev.Error != "" {
		return domainErrors.ErrTransport.WithContext("body", ev.Error)
	}
	if ev.Done {
		a.usage = models.UsageFromEvent(ev)
	}

	fragment, ok := ev.Fragment()
	if !ok {
		return nil
	}

	if a.fragments == 0 && a.onFirst != nil {
		a.onFirst()
	}
	a.fragments++

	if err := a.transcript.Write(fragment); err != nil {
		return domainErrors.NewAppError(domainErrors.TypeInternal, "failed to write to the terminal", err)
	}
	a.lineCount += strings.Count(fragment, "\n")
	a.raw.WriteString(fragment)
	return nil
}

// RawJSON is the concatenation of every fragment received so far.
func (a *Assembler) RawJSON() string {
	return a.raw.String()
}

// LineCount is the number of newlines echoed to the transcript.
func (a *Assembler) LineCount() int {
	return a.lineCount
}

// Usage holds the token counters of the final event, if the server sent them.
func (a *Assembler) Usage() *models.TokenUsage {
	return a.usage
}

// incompleteTail returns the offset where a trailing, not yet complete UTF-8
// sequence starts, or len(b) if there is none.
func incompleteTail(b []byte) int {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			return len(b)
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}
