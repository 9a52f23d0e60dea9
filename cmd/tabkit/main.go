// Command tabkit serves and runs tabular stream recipes.
//
//	tabkit [serve]                       start the HTTP API
//	tabkit recipes                       list available recipes
//	tabkit apply NAME [-i in] [-o out]   run a recipe over CSV files or stdio
//	tabkit run NAME SRC DST              run a recipe between storage objects
//	tabkit select -c a,b [-i in]         print the values of some columns
//	tabkit version                       print build information
//
// Every command accepts --config and --env-file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/tabkit/bootstrap"
	"github.com/kbukum/tabkit/config"
	_ "github.com/kbukum/tabkit/storage/local"
	_ "github.com/kbukum/tabkit/storage/s3"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tabkit:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	name := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		name, args = args[0], args[1:]
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try: serve, recipes, apply, run, select, version)", name)
	}
	if err := cmd(ctx, args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return err
	}
	return nil
}

// newApp loads the configuration and assembles the application. Commands
// that write data to stdout log to stderr.
func newApp(ctx context.Context, g *globalFlags, quiet bool) (*bootstrap.App, error) {
	var opts []config.LoaderOption
	if g.configFile != "" {
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	if quiet {
		cfg.Logging.Output = "stderr"
		if cfg.Logging.Level == "debug" {
			cfg.Logging.Level = "warn"
		}
	}
	return bootstrap.New(ctx, cfg)
}
