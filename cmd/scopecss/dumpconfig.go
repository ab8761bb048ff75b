package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"scopecss/config"
	"scopecss/state"
)

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "dumpconfig",
		Usage: "Dumps either default or actual configuration (YAML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		OnUsageError: usageErrorHandler,
		Action:       outputConfiguration,
		ArgsUsage:    "[DESTINATION]",
		CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent or "-" - standard output

Actual configuration is a composition of default values and values from
configuration file with all templates expanded, except class name template
which is expanded for every stylesheet. Use --default flag to see configuration
embedded into the program.
`, cli.CommandHelpTemplate),
	}
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		kind = "actual"
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	var out io.Writer = os.Stdout
	if len(fname) > 0 && fname != "-" {
		f, e := os.Create(fname)
		if e != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, e)
		}
		defer func() {
			if e := f.Close(); e != nil && err == nil {
				err = fmt.Errorf("unable to close destination file '%s': %w", fname, e)
			}
		}()
		out = f
	} else {
		fname = "STDOUT"
	}
	env.Log.Info("Writing configuration", zap.String("kind", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
