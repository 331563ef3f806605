package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gitwhisper/gitwhisper/internal/ai"
	"github.com/gitwhisper/gitwhisper/internal/commands/completion_helper"
	"github.com/gitwhisper/gitwhisper/internal/config"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"github.com/gitwhisper/gitwhisper/internal/models"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	flagIntent   = "intent"
	flagModel    = "model"
	flagEndpoint = "endpoint"
	flagPrompt   = "prompt"
	flagSimple   = "simple"
	flagTimeout  = "timeout"
	flagYes      = "yes"
	flagDryRun   = "dry-run"
	flagVerbose  = "verbose"
)

// gitService is a minimal interface for testing purposes
type gitService interface {
	IsRepository(ctx context.Context) bool
	IsInitialCommit(ctx context.Context) bool
	StagedDiff(ctx context.Context) (string, error)
	ConfigValue(ctx context.Context, key string) (string, bool)
}

type reviewer interface {
	Review(ctx context.Context, message string) error
	Commit(ctx context.Context, message string) error
}

// GeneratorFactory builds a generator for the endpoint and timeout resolved
// for one run.
type GeneratorFactory func(endpoint string, timeout time.Duration, progress ai.ProgressHandler) ai.CommitGenerator

type GenerateCommandFactory struct {
	gitService   gitService
	reviewer     reviewer
	newGenerator GeneratorFactory
	out          io.Writer
	errOut       io.Writer
}

type Option func(*GenerateCommandFactory)

// WithWriters redirects the command output; stdout and stderr by default.
func WithWriters(out, errOut io.Writer) Option {
	return func(f *GenerateCommandFactory) {
		f.out = out
		f.errOut = errOut
	}
}

func NewGenerateCommandFactory(gitSvc gitService, rev reviewer, newGenerator GeneratorFactory, opts ...Option) *GenerateCommandFactory {
	f := &GenerateCommandFactory{
		gitService:   gitSvc,
		reviewer:     rev,
		newGenerator: newGenerator,
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *GenerateCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "generate",
		Aliases:       []string{"g"},
		Usage:         t.GetMessage("generate_command_usage", 0, nil),
		Flags:         f.Flags(t, false),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.Action(t, cfg),
	}
}

// Flags returns the generation flags. local keeps them off subcommands when
// they are mounted on the root command.
func (f *GenerateCommandFactory) Flags(t *i18n.Translations, local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagIntent,
			Aliases: []string{"i"},
			Usage:   t.GetMessage("intent_flag_usage", 0, nil),
			Local:   local,
		},
		&cli.StringFlag{
			Name:    flagModel,
			Aliases: []string{"m"},
			Usage:   t.GetMessage("model_flag_usage", 0, nil),
			Local:   local,
		},
		&cli.StringFlag{
			Name:  flagEndpoint,
			Usage: t.GetMessage("endpoint_flag_usage", 0, nil),
			Local: local,
		},
		&cli.StringFlag{
			Name:  flagPrompt,
			Usage: t.GetMessage("prompt_flag_usage", 0, nil),
			Local: local,
		},
		&cli.BoolFlag{
			Name:  flagSimple,
			Usage: t.GetMessage("simple_flag_usage", 0, nil),
			Local: local,
		},
		&cli.DurationFlag{
			Name:  flagTimeout,
			Usage: t.GetMessage("timeout_flag_usage", 0, nil),
			Local: local,
		},
		&cli.BoolFlag{
			Name:    flagYes,
			Aliases: []string{"y"},
			Usage:   t.GetMessage("yes_flag_usage", 0, nil),
			Local:   local,
		},
		&cli.BoolFlag{
			Name:  flagDryRun,
			Usage: t.GetMessage("dry_run_flag_usage", 0, nil),
			Local: local,
		},
	}
}

func (f *GenerateCommandFactory) Action(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		log := logger.FromContext(ctx)

		if !f.gitService.IsRepository(ctx) {
			ui.HandleAppError(f.errOut, domainErrors.ErrNotInGitRepo, t)
			return domainErrors.ErrNotInGitRepo
		}

		settings, err := f.resolveSettings(ctx, command, cfg)
		if err != nil {
			ui.HandleAppError(f.errOut, err, t)
			return err
		}

		diff, err := f.readDiff(ctx, t)
		if err != nil {
			ui.HandleAppError(f.errOut, err, t)
			return err
		}

		log.Info("executing generate command",
			"model", settings.Model,
			"endpoint", settings.Endpoint,
			"categorized", settings.UseCategory,
			"timeout", settings.Timeout.Std(),
			"diff_bytes", len(diff))

		_, _ = fmt.Fprintf(f.out, "%s\n\n", t.GetMessage("generating_message", 0, nil))

		spinner := ui.NewSmartSpinner(f.errOut, t.GetMessage("waiting_for_model", 0, map[string]interface{}{"Model": settings.Model}))
		spinner.Start()
		// logs would tear through the spinner and the transcript the redraw clears
		releaseLogs := logger.HoldOutput(ctx)

		generator := f.newGenerator(settings.Endpoint, settings.Timeout.Std(), func(ev models.ProgressEvent) {
			if ev.Type == models.ProgressStreaming {
				spinner.Stop()
			}
		})

		shape := models.SimpleShape
		if settings.UseCategory {
			shape = models.CategorizedShape
		}

		start := time.Now()
		result, err := generator.Generate(ctx, models.GenerateRequest{
			Diff:     diff,
			Model:    settings.Model,
			Template: settings.PromptTemplate,
			Intent:   command.String(flagIntent),
			Language: settings.Language,
			Shape:    shape,
		})
		spinner.Stop()

		if err != nil {
			_, _ = fmt.Fprintln(f.out)
			releaseLogs()
			if errors.Is(err, context.Canceled) {
				ui.PrintWarning(f.errOut, t.GetMessage("review.cancelled", 0, nil))
				return err
			}
			ui.PrintError(f.errOut, t.GetMessage("generation_failed", 0, nil))
			ui.HandleAppError(f.errOut, err, t)
			return err
		}

		releaseLogs()
		_, _ = fmt.Fprintf(f.out, "\n%s\n\n", t.GetMessage("preview_footer", 0, nil))
		ui.PrintDuration(f.errOut, t.GetMessage("generation_done", 0, nil), time.Since(start))
		if command.Bool(flagVerbose) {
			ui.PrintTokenUsage(f.errOut, result.Usage, t)
		}

		switch {
		case command.Bool(flagDryRun):
			ui.PrintInfo(f.out, t.GetMessage("dry_run_notice", 0, nil))
			return nil
		case command.Bool(flagYes):
			if err := f.reviewer.Commit(ctx, result.Text); err != nil {
				ui.HandleAppError(f.errOut, err, t)
				return err
			}
			ui.PrintSuccess(f.out, t.GetMessage("review.accepted", 0, nil))
			_, _ = fmt.Fprintln(f.out, result.Text)
			return nil
		default:
			if err := f.reviewer.Review(ctx, result.Text); err != nil {
				ui.HandleAppError(f.errOut, err, t)
				return err
			}
			return nil
		}
	}
}

// resolveSettings applies flags over git config over the config file.
func (f *GenerateCommandFactory) resolveSettings(ctx context.Context, command *cli.Command, cfg *config.Config) (config.Config, error) {
	effective := *cfg

	if err := config.ApplyGitConfig(&effective, func(key string) (string, bool) {
		return f.gitService.ConfigValue(ctx, key)
	}); err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag string
		key  string
	}{
		{flagModel, config.KeyModel},
		{flagEndpoint, config.KeyEndpoint},
		{flagPrompt, config.KeyPrompt},
	}
	for _, o := range overrides {
		if command.IsSet(o.flag) {
			if err := config.Set(&effective, o.key, command.String(o.flag)); err != nil {
				return config.Config{}, err
			}
		}
	}
	if command.IsSet(flagTimeout) {
		if err := config.Set(&effective, config.KeyTimeout, command.Duration(flagTimeout).String()); err != nil {
			return config.Config{}, err
		}
	}
	if command.Bool(flagSimple) {
		effective.UseCategory = false
	}

	return effective, nil
}

func (f *GenerateCommandFactory) readDiff(ctx context.Context, t *i18n.Translations) (string, error) {
	if f.gitService.IsInitialCommit(ctx) {
		logger.Info(ctx, "initial commit, sending placeholder instead of a diff")
		ui.PrintWarning(f.errOut, t.GetMessage("initial_commit_detected", 0, nil))
		return ai.InitialCommitDiff, nil
	}

	diff, err := f.gitService.StagedDiff(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		return "", domainErrors.ErrNoDiff
	}
	return diff, nil
}
