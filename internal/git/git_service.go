package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/logger"
)

type GitService struct {
	dir string
}

type Option func(*GitService)

// WithDir runs every git command in dir instead of the working directory.
func WithDir(dir string) Option {
	return func(s *GitService) {
		s.dir = dir
	}
}

func NewGitService(opts ...Option) *GitService {
	s := &GitService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	return cmd
}

// run executes git and returns its stdout together with the trimmed stderr.
func (s *GitService) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := s.command(ctx, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

// IsRepository reports whether the working directory is inside a git work tree.
func (s *GitService) IsRepository(ctx context.Context) bool {
	out, _, err := s.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// IsInitialCommit reports whether HEAD does not resolve yet, i.e. nothing has
// been committed.
func (s *GitService) IsInitialCommit(ctx context.Context) bool {
	_, _, err := s.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	return err != nil
}

// StagedDiff returns the diff of the index against HEAD. An empty diff is
// reported as ErrNoDiff.
func (s *GitService) StagedDiff(ctx context.Context) (string, error) {
	out, stderr, err := s.run(ctx, "diff", "--staged")
	if err != nil {
		return "", domainErrors.ErrGetDiff.WithError(err).WithContext("stderr", stderr)
	}
	if strings.TrimSpace(out) == "" {
		return "", domainErrors.ErrNoDiff
	}

	logger.Debug(ctx, "staged diff read", "bytes", len(out))
	return out, nil
}

// ConfigValue reads a git config key. The boolean is false when the key is unset.
func (s *GitService) ConfigValue(ctx context.Context, key string) (string, bool) {
	out, _, err := s.run(ctx, "config", "--get", key)
	if err != nil {
		return "", false
	}
	return strings.TrimRight(out, "\r\n"), true
}

// Commit records the staged changes. The body is passed as a second -m only
// when it is not blank.
func (s *GitService) Commit(ctx context.Context, subject, body string) error {
	if strings.TrimSpace(subject) == "" {
		return domainErrors.ErrEmptySubject
	}

	args := []string{"commit", "-m", subject}
	if strings.TrimSpace(body) != "" {
		args = append(args, "-m", body)
	}

	_, stderr, err := s.run(ctx, args...)
	if err != nil {
		appErr := domainErrors.ErrCreateCommit.WithError(err).WithContext("stderr", stderr)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			appErr = appErr.WithContext("exit_code", exitErr.ExitCode())
		}
		return appErr
	}

	logger.Info(ctx, "commit created", "subject", subject)
	return nil
}
