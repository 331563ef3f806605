package models

import "time"

type TokenUsage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	Model        string `json:"model,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
}

// UsageFromEvent reads the counters Ollama attaches to the final event of a stream.
func UsageFromEvent(ev StreamEvent) *TokenUsage {
	if !ev.Done || (ev.PromptEvalCount == 0 && ev.EvalCount == 0) {
		return nil
	}
	return &TokenUsage{
		InputTokens:  ev.PromptEvalCount,
		OutputTokens: ev.EvalCount,
		TotalTokens:  ev.PromptEvalCount + ev.EvalCount,
		Model:        ev.Model,
		DurationMs:   time.Duration(ev.TotalDuration).Milliseconds(),
	}
}
