package config

import (
	"io"
	"os"

	"github.com/gitwhisper/gitwhisper/internal/config"
	"github.com/gitwhisper/gitwhisper/internal/i18n"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct {
	out    io.Writer
	errOut io.Writer
	edit   func(path string) error
}

type Option func(*ConfigCommandFactory)

func WithWriters(out, errOut io.Writer) Option {
	return func(c *ConfigCommandFactory) {
		c.out = out
		c.errOut = errOut
	}
}

// WithFileEditor replaces the $EDITOR round trip used by "config edit".
func WithFileEditor(fn func(path string) error) Option {
	return func(c *ConfigCommandFactory) {
		c.edit = fn
	}
}

func NewConfigCommandFactory(opts ...Option) *ConfigCommandFactory {
	c := &ConfigCommandFactory{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config.command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetCommand(t, cfg),
			c.newEditCommand(t, cfg),
		},
	}
}
