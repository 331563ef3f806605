package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestHandleAppError(t *testing.T) {
	t.Run("should print type message details and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrTransport.
			WithError(errors.New("connection refused")).
			WithContext("status", 404).
			WithSuggestion("Start the server\nThen retry")

		HandleAppError(&buf, err, nil)

		out := buf.String()
		assert.Contains(t, out, string(domainErrors.ErrTransport.Type))
		assert.Contains(t, out, "connection refused")
		assert.Contains(t, out, "HTTP status: 404")
		assert.Contains(t, out, "💡 Try: Start the server\n")
		assert.Contains(t, out, "       Then retry\n")
	})

	t.Run("should print plain errors as they are", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"), nil)

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("should ignore nil", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, nil, nil)
		assert.Empty(t, buf.String())
	})
}

func TestSmartSpinner(t *testing.T) {
	t.Run("should tolerate repeated stops", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewSmartSpinner(&buf, "waiting")

		s.Start()
		s.Stop()
		s.Stop()

		assert.False(t, s.running)
	})
}

func TestPrintTokenUsage(t *testing.T) {
	t.Run("should print nothing without usage", func(t *testing.T) {
		var buf bytes.Buffer
		PrintTokenUsage(&buf, nil, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("should print counts and duration", func(t *testing.T) {
		var buf bytes.Buffer
		usage := &models.TokenUsage{InputTokens: 120, OutputTokens: 30, TotalTokens: 150, DurationMs: 1500}

		trans, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)

		PrintTokenUsage(&buf, usage, trans)

		out := buf.String()
		assert.Contains(t, out, "120")
		assert.Contains(t, out, "30")
		assert.Contains(t, out, "150")
		assert.Contains(t, out, "1500ms")
	})
}
