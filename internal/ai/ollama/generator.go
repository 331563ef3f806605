package ollama

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gitwhisper/gitwhisper/internal/ai"
	"github.com/gitwhisper/gitwhisper/internal/commit"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/google/uuid"
)

// Generator runs one streamed generation per call: it echoes the answer while
// it arrives, erases it once complete and prints the formatted message.
type Generator struct {
	client     *Client
	transcript ui.Transcript
	out        io.Writer
	progress   ai.ProgressHandler
}

var _ ai.CommitGenerator = (*Generator)(nil)

type GeneratorOption func(*Generator)

// WithOutput sets where the final message is printed. Defaults to stdout.
func WithOutput(w io.Writer) GeneratorOption {
	return func(g *Generator) {
		g.out = w
	}
}

func WithProgress(fn ai.ProgressHandler) GeneratorOption {
	return func(g *Generator) {
		g.progress = fn
	}
}

func NewGenerator(client *Client, transcript ui.Transcript, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:     client,
		transcript: transcript,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(ctx context.Context, req models.GenerateRequest) (models.Generation, error) {
	ctx = logger.With(ctx, "request_id", uuid.NewString(), "model", req.Model)
	start := time.Now()

	composer := ai.PromptComposer{Shape: req.Shape, Language: req.Language}
	prompt := composer.Compose(req.Diff, req.Template, req.Intent)

	chatReq := ChatRequest{
		Model:    req.Model,
		Messages: []ChatMessage{{Role: "user", Content: prompt}},
		Stream:   true,
		Format:   Descriptor(req.Shape),
	}

	logger.Info(ctx, "requesting commit message",
		"endpoint", g.client.Endpoint(),
		"shape", req.Shape.String(),
		"prompt_chars", len(prompt),
		"has_intent", req.Intent != "")

	g.emit(models.ProgressConnecting, req.Model)

	asm := NewAssembler(g.transcript)
	asm.OnFirstFragment(func() {
		g.emit(models.ProgressStreaming, "")
	})

	var chunks, size int
	err := g.client.StreamChat(ctx, chatReq, func(chunk []byte) error {
		chunks++
		size += len(chunk)
		return asm.Feed(chunk)
	})
	if err == nil {
		err = asm.Finish()
	}
	if err != nil {
		// the transcript stays on screen so the partial answer can be inspected
		logger.Error(ctx, "stream failed", err,
			"chunks", chunks,
			"bytes", size,
			"lines", asm.LineCount())
		return models.Generation{}, err
	}

	logger.Debug(ctx, "stream complete",
		"chunks", chunks,
		"bytes", size,
		"lines", asm.LineCount())

	// parse before clearing so a rejected answer stays visible
	msg, err := commit.Parse(asm.RawJSON(), req.Shape)
	if err != nil {
		logger.Error(ctx, "model output rejected", err, "raw", asm.RawJSON())
		return models.Generation{}, err
	}

	if err := g.transcript.Clear(asm.LineCount()); err != nil {
		return models.Generation{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to clear the terminal", err)
	}
	g.emit(models.ProgressRendering, "")

	text := commit.Format(msg, req.Shape)
	if _, err := fmt.Fprintln(g.out, text); err != nil {
		return models.Generation{}, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to print the commit message", err)
	}

	usage := asm.Usage()
	if usage != nil {
		logger.Info(ctx, "commit message generated",
			"duration", time.Since(start),
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens)
	} else {
		logger.Info(ctx, "commit message generated", "duration", time.Since(start))
	}

	return models.Generation{
		Message: msg,
		Text:    text,
		RawJSON: asm.RawJSON(),
		Usage:   usage,
	}, nil
}

func (g *Generator) emit(t models.ProgressEventType, msg string) {
	if g.progress != nil {
		g.progress(models.ProgressEvent{Type: t, Message: msg})
	}
}
