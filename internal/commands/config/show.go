package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gitwhisper/gitwhisper/internal/config"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			_, _ = ui.Accent.Fprintln(c.out, t.GetMessage("config.header", 0, nil))
			_, _ = fmt.Fprintln(c.out, "━━━━━━━━━━━━━━━━━━━━━━━")

			prompt := cfg.PromptTemplate
			if prompt == "" {
				prompt = "(built-in)"
			}
			timeout := "(none)"
			if cfg.Timeout > 0 {
				timeout = cfg.Timeout.Std().String()
			}

			ui.PrintKeyValue(c.out, config.KeyModel, cfg.Model)
			ui.PrintKeyValue(c.out, config.KeyEndpoint, cfg.Endpoint)
			ui.PrintKeyValue(c.out, config.KeyLang, cfg.Language)
			ui.PrintKeyValue(c.out, config.KeyCategory, strconv.FormatBool(cfg.UseCategory))
			ui.PrintKeyValue(c.out, config.KeyTimeout, timeout)
			ui.PrintKeyValue(c.out, config.KeyPrompt, prompt)
			_, _ = fmt.Fprintln(c.out)
			ui.PrintKeyValue(c.out, t.GetMessage("config.file", 0, nil), cfg.PathFile)

			return nil
		},
	}
}
