// Command bilingo translates static-site posts into bilingual posts and adds
// the language switcher to rendered pages.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/ZaguanLabs/bilingo/cache"
	"github.com/ZaguanLabs/bilingo/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries state shared by subcommands.
type app struct {
	stdout, stderr io.Writer

	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   bilingo.Name,
		Short: bilingo.Description,
		Long: `bilingo translates markdown posts with an OpenAI-compatible backend and
embeds original and translation side by side, so readers can switch
languages without a second copy of the site.

Translations are cached by content fingerprint in a local JSON file and,
optionally, in a shared Postgres, SQLite or Redis database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./bilingo.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		a.buildCmd(),
		a.injectCmd(),
		a.cacheCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Commands call it first.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
	return nil
}

// openStore opens the record store, attaching the remote tier when a
// database URL is configured. An unreachable remote is logged and skipped.
func (a *app) openStore(ctx context.Context) *cache.Store {
	opts := []cache.Option{cache.WithLogger(a.log)}
	if url := a.cfg.DatabaseURL; url != "" {
		remote, err := cache.OpenRemote(ctx, url)
		if err != nil {
			a.log.Warn().Err(err).Msg("remote cache unavailable, using local tier only")
		} else {
			opts = append(opts, cache.WithRemote(remote))
		}
	}
	return cache.NewStore(a.cfg.CachePath, opts...)
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", bilingo.Name, bilingo.Version)
			if bilingo.GitCommit != "unknown" && bilingo.GitCommit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", bilingo.GitCommit)
			}
			if bilingo.BuildDate != "unknown" && bilingo.BuildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", bilingo.BuildDate)
			}
		},
	}
}
