package completion_helper

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestDefaultFlagComplete(t *testing.T) {
	var out bytes.Buffer
	cmd := &cli.Command{
		Name:   "git-whisper",
		Writer: &out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}},
			&cli.BoolFlag{Name: "secret", Hidden: true},
		},
	}

	DefaultFlagComplete(context.Background(), cmd)

	assert.Equal(t, "--model\n-m\n", out.String())
}
