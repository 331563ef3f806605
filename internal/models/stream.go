package models

// StreamEvent is one newline-delimited JSON object of a streamed chat response.
// Only Message.Content feeds the commit message; the counters of the final
// event are kept for usage reporting.
type StreamEvent struct {
	Model           string         `json:"model,omitempty"`
	Message         *StreamMessage `json:"message,omitempty"`
	Done            bool           `json:"done,omitempty"`
	DoneReason      string         `json:"done_reason,omitempty"`
	Error           string         `json:"error,omitempty"`
	PromptEvalCount int            `json:"prompt_eval_count,omitempty"`
	EvalCount       int            `json:"eval_count,omitempty"`
	TotalDuration   int64          `json:"total_duration,omitempty"`
}

type StreamMessage struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Fragment returns the text carried by the event, if any.
func (e StreamEvent) Fragment() (string, bool) {
	if e.Message == nil || e.Message.Content == nil {
		return "", false
	}
	return *e.Message.Content, true
}

// Generation is the outcome of one successful generation call.
type Generation struct {
	Message CommitMessage
	Text    string
	RawJSON string
	Usage   *TokenUsage
}

// GenerateRequest carries the inputs of one generation call.
type GenerateRequest struct {
	Diff     string
	Model    string
	Template string
	Intent   string
	Language string
	Shape    RecordShape
}
