package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gitwhisper/gitwhisper/internal/commit"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"github.com/gitwhisper/gitwhisper/internal/ui"
)

// gitService is a minimal interface for testing purposes
type gitService interface {
	Commit(ctx context.Context, subject, body string) error
}

type ReviewHandler struct {
	gitService gitService
	t          *i18n.Translations
	in         *bufio.Reader
	out        io.Writer
	edit       func(initial string) (string, error)
}

type Option func(*ReviewHandler)

// WithEditor replaces the $EDITOR round trip, mostly for tests.
func WithEditor(fn func(initial string) (string, error)) Option {
	return func(h *ReviewHandler) {
		h.edit = fn
	}
}

func NewReviewHandler(gitSvc gitService, t *i18n.Translations, in io.Reader, out io.Writer, opts ...Option) *ReviewHandler {
	h := &ReviewHandler{
		gitService: gitSvc,
		t:          t,
		in:         bufio.NewReader(in),
		out:        out,
		edit:       ui.EditMessage,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Review asks whether to commit message. The message only changes through
// the editor; declining or closing the input commits nothing.
func (h *ReviewHandler) Review(ctx context.Context, message string) error {
	log := logger.FromContext(ctx)

	for {
		_, _ = color.New(color.FgCyan, color.Bold).Fprint(h.out, h.t.GetMessage("review.prompt", 0, nil))

		line, err := h.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if errors.Is(err, io.EOF) && line == "" {
			_, _ = fmt.Fprintln(h.out)
			ui.PrintWarning(h.out, h.t.GetMessage("review.cancelled", 0, nil))
			return nil
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		log.Debug("review answer", "choice", choice)

		switch choice {
		case "", "y", "yes":
			if err := h.Commit(ctx, message); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(h.out)
			ui.PrintSuccess(h.out, h.t.GetMessage("review.accepted", 0, nil))
			_, _ = fmt.Fprintln(h.out, message)
			return nil

		case "n", "no":
			ui.PrintWarning(h.out, h.t.GetMessage("review.cancelled", 0, nil))
			return nil

		case "e", "edit":
			edited, err := h.edit(message)
			if err != nil {
				log.Warn("editor failed", "error", err)
				ui.PrintError(h.out, h.t.GetMessage("review.editor_failed", 0, map[string]interface{}{"Error": err}))
				ui.PrintInfo(h.out, h.t.GetMessage("review.editor_tip", 0, nil))
				continue
			}
			message = strings.TrimRight(edited, " \t\r\n")
			_, _ = fmt.Fprintf(h.out, "\n%s\n\n%s\n\n", h.t.GetMessage("review.edited_preview", 0, nil), message)

		default:
			ui.PrintWarning(h.out, h.t.GetMessage("review.invalid_choice", 0, nil))
			_, _ = fmt.Fprintln(h.out)
		}
	}
}

// Commit splits message into subject and body and records it.
func (h *ReviewHandler) Commit(ctx context.Context, message string) error {
	subject, body, err := commit.Split(message)
	if err != nil {
		return err
	}
	return h.gitService.Commit(ctx, subject, body)
}
