package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gitwhisper/gitwhisper/internal/ai"
	"github.com/gitwhisper/gitwhisper/internal/ai/ollama"
	configcmd "github.com/gitwhisper/gitwhisper/internal/commands/config"
	"github.com/gitwhisper/gitwhisper/internal/commands/generate"
	"github.com/gitwhisper/gitwhisper/internal/commands/handler"
	cfg "github.com/gitwhisper/gitwhisper/internal/config"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/git"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"github.com/gitwhisper/gitwhisper/internal/registry"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/gitwhisper/gitwhisper/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		// commands already rendered their own AppErrors
		var appErr *domainErrors.AppError
		if !errors.As(err, &appErr) && !errors.Is(err, context.Canceled) {
			ui.PrintError(os.Stderr, err.Error())
		}
		stop()
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, error) {
	cfgApp, err := cfg.LoadConfig("")
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	gitService := git.NewGitService()
	reviewHandler := handler.NewReviewHandler(gitService, translations, os.Stdin, os.Stdout)

	newGenerator := func(endpoint string, timeout time.Duration, progress ai.ProgressHandler) ai.CommitGenerator {
		client := ollama.NewClient(endpoint, ollama.WithIdleTimeout(timeout))
		return ollama.NewGenerator(client, ui.NewTerminalTranscript(os.Stdout),
			ollama.WithOutput(os.Stdout),
			ollama.WithProgress(progress))
	}

	generateFactory := generate.NewGenerateCommandFactory(gitService, reviewHandler, newGenerator)

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("generate", generateFactory); err != nil {
		return nil, fmt.Errorf("error registering the 'generate' command: %w", err)
	}

	if err := registerCommand.Register("config", configcmd.NewConfigCommandFactory()); err != nil {
		return nil, fmt.Errorf("error registering the 'config' command: %w", err)
	}

	globalFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: translations.GetMessage("debug_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: translations.GetMessage("verbose_flag_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: translations.GetMessage("lang_flag_usage", 0, nil),
		},
	}

	return &cli.Command{
		Name:                  "git-whisper",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Flags:                 append(globalFlags, generateFactory.Flags(translations, true)...),
		Commands:              registerCommand.CreateCommands(),
		Action:                generateFactory.Action(translations, cfgApp),
		EnableShellCompletion: true,
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			logger.Initialize(os.Stderr, command.Bool("debug"), command.Bool("verbose"))

			if command.IsSet("lang") {
				cfgApp.Language = cfg.GetLocaleConfig(ctx, command.String("lang"))
				if err := translations.SetLanguage(cfgApp.Language); err != nil {
					logger.Warn(ctx, "could not switch language", "error", err)
				}
			}

			logger.Debug(ctx, "starting git-whisper",
				"version", version.FullVersion(),
				"config", cfgApp.PathFile)
			return ctx, nil
		},
	}, nil
}
