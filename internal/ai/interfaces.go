package ai

import (
	"context"

	"github.com/gitwhisper/gitwhisper/internal/models"
)

// CommitGenerator turns a staged diff into a rendered commit message.
type CommitGenerator interface {
	// Generate streams the answer of the model, erases the live transcript and
	// returns the parsed and formatted message. No partial message is returned
	// on error.
	Generate(ctx context.Context, req models.GenerateRequest) (models.Generation, error)
}

// ProgressHandler receives generation milestones, e.g. to stop a spinner
// before the first fragment is echoed.
type ProgressHandler func(models.ProgressEvent)
