package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) Commit(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

const message = "feat: Add X\n\n- Add X to support Y\n- Update Z"

func setup(t *testing.T, input string, opts ...Option) (*ReviewHandler, *MockGitService, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	git := new(MockGitService)
	out := &bytes.Buffer{}
	return NewReviewHandler(git, trans, strings.NewReader(input), out, opts...), git, out
}

func TestReviewHandler_Review(t *testing.T) {
	ctx := context.Background()

	for _, answer := range []string{"\n", "y\n", "Y\n", "  y  \n"} {
		t.Run("should commit on "+strings.TrimSpace(answer)+"", func(t *testing.T) {
			h, git, out := setup(t, answer)
			git.On("Commit", mock.Anything, "feat: Add X", "- Add X to support Y\n- Update Z").Return(nil)

			require.NoError(t, h.Review(ctx, message))

			git.AssertExpectations(t)
			assert.Contains(t, out.String(), "Accepted commit message:")
			assert.Contains(t, out.String(), message)
		})
	}

	t.Run("should cancel on n without committing", func(t *testing.T) {
		h, git, out := setup(t, "n\n")

		require.NoError(t, h.Review(ctx, message))

		git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "Commit cancelled")
	})

	t.Run("should cancel on end of input", func(t *testing.T) {
		h, git, out := setup(t, "")

		require.NoError(t, h.Review(ctx, message))

		git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
		assert.Contains(t, out.String(), "Commit cancelled")
	})

	t.Run("should accept a last answer without newline", func(t *testing.T) {
		h, git, _ := setup(t, "y")
		git.On("Commit", mock.Anything, "feat: Add X", mock.Anything).Return(nil)

		require.NoError(t, h.Review(ctx, message))
		git.AssertExpectations(t)
	})

	t.Run("should loop on invalid input", func(t *testing.T) {
		h, git, out := setup(t, "maybe\nq\nn\n")

		require.NoError(t, h.Review(ctx, message))

		git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 2, strings.Count(out.String(), "Invalid choice"))
		assert.Equal(t, 3, strings.Count(out.String(), "Accept this message?"))
	})

	t.Run("should commit the edited message", func(t *testing.T) {
		var seen string
		h, git, out := setup(t, "e\ny\n", WithEditor(func(initial string) (string, error) {
			seen = initial
			return "fix: Edited\n\nbody line\n\n\n", nil
		}))
		git.On("Commit", mock.Anything, "fix: Edited", "body line").Return(nil)

		require.NoError(t, h.Review(ctx, message))

		assert.Equal(t, message, seen)
		git.AssertExpectations(t)
		assert.Contains(t, out.String(), "[Edited commit message preview]")
	})

	t.Run("should keep the message when the editor fails", func(t *testing.T) {
		h, git, out := setup(t, "e\n\n", WithEditor(func(string) (string, error) {
			return "", errors.New("exit status 1")
		}))
		git.On("Commit", mock.Anything, "feat: Add X", mock.Anything).Return(nil)

		require.NoError(t, h.Review(ctx, message))

		git.AssertExpectations(t)
		assert.Contains(t, out.String(), "Failed to open editor: exit status 1")
		assert.Contains(t, out.String(), "$EDITOR")
	})

	t.Run("should return commit failures", func(t *testing.T) {
		h, git, _ := setup(t, "y\n")
		git.On("Commit", mock.Anything, mock.Anything, mock.Anything).Return(domainErrors.ErrCreateCommit)

		err := h.Review(ctx, message)

		assert.ErrorIs(t, err, domainErrors.ErrCreateCommit)
	})

	t.Run("should reject an edited message with an empty subject", func(t *testing.T) {
		h, git, _ := setup(t, "e\ny\n", WithEditor(func(string) (string, error) {
			return "\n\n- only body", nil
		}))

		err := h.Review(ctx, message)

		assert.ErrorIs(t, err, domainErrors.ErrEmptySubject)
		git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})
}
