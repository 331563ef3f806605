package ollama

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingTranscript keeps every fragment and the line counts Clear was called with.
type recordingTranscript struct {
	fragments []string
	clears    []int
	writeErr  error
}

func (r *recordingTranscript) Write(fragment string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.fragments = append(r.fragments, fragment)
	return nil
}

func (r *recordingTranscript) Clear(lineCount int) error {
	r.clears = append(r.clears, lineCount)
	return nil
}

func (r *recordingTranscript) text() string {
	return strings.Join(r.fragments, "")
}

// ndjson renders one chat event per fragment followed by a final done event.
func ndjson(t *testing.T, fragments ...string) string {
	t.Helper()
	var b strings.Builder
	for _, f := range fragments {
		line, err := json.Marshal(map[string]interface{}{
			"model":   "llama3",
			"message": map[string]string{"role": "assistant", "content": f},
			"done":    false,
		})
		require.NoError(t, err)
		b.Write(line)
		b.WriteByte('\n')
	}
	b.WriteString(`{"model":"llama3","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","prompt_eval_count":120,"eval_count":30,"total_duration":1500000000}`)
	b.WriteByte('\n')
	return b.String()
}
