package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	answer := []string{`{"category":"feat",`, `"title":"Add X",`, "\n", `"changes":["Add X to support Y","- Update Z"]}`}

	newGenerator := func(t *testing.T, body string, onRequest func(*http.Request)) (*Generator, *recordingTranscript, *bytes.Buffer, *[]models.ProgressEventType) {
		srv := streamingServer(t, body, 7, onRequest)
		rec := &recordingTranscript{}
		out := &bytes.Buffer{}
		var events []models.ProgressEventType
		g := NewGenerator(NewClient(srv.URL), rec,
			WithOutput(out),
			WithProgress(func(ev models.ProgressEvent) {
				events = append(events, ev.Type)
			}))
		return g, rec, out, &events
	}

	t.Run("should stream, clear and render the message", func(t *testing.T) {
		var sent ChatRequest
		g, rec, out, events := newGenerator(t, ndjson(t, answer...), func(r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		})

		gen, err := g.Generate(context.Background(), models.GenerateRequest{
			Diff:   "diff --git a/x b/x",
			Model:  "llama3",
			Intent: "support Y",
			Shape:  models.CategorizedShape,
		})

		require.NoError(t, err)
		want := "feat: Add X\n\n- Add X to support Y\n- Update Z"
		assert.Equal(t, want, gen.Text)
		assert.Equal(t, want+"\n", out.String())
		assert.Equal(t, strings.Join(answer, ""), gen.RawJSON)
		assert.Equal(t, strings.Join(answer, ""), rec.text())
		assert.Equal(t, []int{1}, rec.clears, "clear the one newline the model streamed")
		assert.Equal(t, []models.ProgressEventType{models.ProgressConnecting, models.ProgressStreaming, models.ProgressRendering}, *events)
		require.NotNil(t, gen.Usage)
		assert.Equal(t, 150, gen.Usage.TotalTokens)

		assert.Equal(t, "llama3", sent.Model)
		assert.True(t, sent.Stream)
		require.Len(t, sent.Messages, 1)
		assert.Contains(t, sent.Messages[0].Content, "diff --git a/x b/x")
		assert.Contains(t, sent.Messages[0].Content, "support Y")
		assert.Equal(t, []string{"category", "title", "changes"}, sent.Format.Required)
	})

	t.Run("should use the simple shape", func(t *testing.T) {
		var sent ChatRequest
		g, _, _, _ := newGenerator(t, ndjson(t, `{"title":"Fix","changes":[]}`), func(r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		})

		gen, err := g.Generate(context.Background(), models.GenerateRequest{Diff: "d", Model: "m", Shape: models.SimpleShape})

		require.NoError(t, err)
		assert.Equal(t, "Fix", gen.Text)
		assert.NotContains(t, sent.Format.Properties, "category")
	})

	t.Run("should keep the transcript when the stream is malformed", func(t *testing.T) {
		body := `{"message":{"content":"{\"title\""}}` + "\n<html>oops</html>\n"
		g, rec, out, _ := newGenerator(t, body, nil)

		gen, err := g.Generate(context.Background(), models.GenerateRequest{Diff: "d", Model: "m", Shape: models.SimpleShape})

		assert.ErrorIs(t, err, domainErrors.ErrFraming)
		assert.Empty(t, gen.Text)
		assert.Empty(t, rec.clears)
		assert.Equal(t, `{"title"`, rec.text())
		assert.Empty(t, out.String())
	})

	t.Run("should keep the transcript when the answer misses a field", func(t *testing.T) {
		g, rec, out, events := newGenerator(t, ndjson(t, `{"title":`, `"x"}`), nil)

		gen, err := g.Generate(context.Background(), models.GenerateRequest{Diff: "d", Model: "m", Shape: models.SimpleShape})

		assert.ErrorIs(t, err, domainErrors.ErrSchema)
		assert.Equal(t, models.Generation{}, gen)
		assert.Empty(t, rec.clears)
		assert.Equal(t, `{"title":"x"}`, rec.text())
		assert.Empty(t, out.String())
		assert.NotContains(t, *events, models.ProgressRendering)
	})

	t.Run("should keep the transcript when the answer is not JSON", func(t *testing.T) {
		g, rec, out, _ := newGenerator(t, ndjson(t, "Sure!\n", "Here is your commit"), nil)

		_, err := g.Generate(context.Background(), models.GenerateRequest{Diff: "d", Model: "m", Shape: models.CategorizedShape})

		assert.ErrorIs(t, err, domainErrors.ErrSchema)
		assert.Empty(t, rec.clears)
		assert.Equal(t, "Sure!\nHere is your commit", rec.text())
		assert.Empty(t, out.String())
	})
}
