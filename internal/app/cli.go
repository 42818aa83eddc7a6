package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/adminconsole/internal/cli"
	"github.com/dmitrijs2005/adminconsole/internal/config"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

// CLI is the terminal client with the storage it holds open.
type CLI struct {
	*cli.App
	closeFn func() error
}

// NewCLI builds the terminal client from the same settings as the console.
// Logs go to logOut so they do not interleave with command output.
func NewCLI(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) (*CLI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(logOut, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	d, err := buildDeps(ctx, cfg, logger.With("module", "cli"))
	if err != nil {
		return nil, err
	}

	sess := cli.NewSession(d.repo, d.sealer)
	return &CLI{
		App:     cli.NewApp(d.api, sess, d.format, in, out, d.logger),
		closeFn: d.repo.Close,
	}, nil
}

func (c *CLI) Close() error {
	return c.closeFn()
}
