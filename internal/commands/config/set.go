package config

import (
	"context"
	"errors"
	"strings"

	"github.com/gitwhisper/gitwhisper/internal/config"
	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: t.GetMessage("config.set_args_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() < 2 {
				msg := t.GetMessage("config.set_error_args", 0, nil)
				ui.PrintError(c.errOut, msg)
				return errors.New(msg)
			}

			key := strings.ToLower(command.Args().Get(0))
			value := strings.Join(command.Args().Slice()[1:], " ")

			if !isKnownKey(key) {
				msg := t.GetMessage("config.unknown_key", 0, map[string]interface{}{
					"Key":  key,
					"Keys": strings.Join(config.Keys(), ", "),
				})
				ui.PrintError(c.errOut, msg)
				return domainErrors.ErrConfigInvalid.WithContext("key", key)
			}

			if err := config.Set(cfg, key, value); err != nil {
				ui.HandleAppError(c.errOut, err, t)
				return err
			}

			if key == config.KeyLang {
				_ = t.SetLanguage(cfg.Language)
			}

			if err := config.SaveConfig(cfg); err != nil {
				ui.HandleAppError(c.errOut, err, t)
				return err
			}

			logger.Info(ctx, "configuration updated", "key", key)
			ui.PrintSuccess(c.out, t.GetMessage("config.saved", 0, nil))
			return nil
		},
	}
}

func isKnownKey(key string) bool {
	for _, k := range config.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
