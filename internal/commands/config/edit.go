package config

import (
	"context"

	"github.com/gitwhisper/gitwhisper/internal/config"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/gitwhisper/gitwhisper/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newEditCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: t.GetMessage("config.edit_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			edit := c.edit
			if edit == nil {
				edit = ui.EditFile
			}

			if err := edit(cfg.PathFile); err != nil {
				ui.HandleAppError(c.errOut, err, t)
				return err
			}

			// the edited file has to load cleanly before it is used
			reloaded, err := config.LoadConfig(cfg.PathFile)
			if err != nil {
				ui.PrintError(c.errOut, t.GetMessage("config.edit_invalid", 0, nil))
				ui.HandleAppError(c.errOut, err, t)
				return err
			}

			*cfg = *reloaded
			ui.PrintSuccess(c.out, t.GetMessage("config.saved", 0, nil))
			return nil
		},
	}
}
