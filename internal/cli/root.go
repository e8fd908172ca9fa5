// Package cli wires configuration, logging and services behind cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"swscroll/internal/blog"
	"swscroll/internal/config"
	"swscroll/internal/eventbus"
	"swscroll/internal/logging"
	"swscroll/internal/query"
	"swscroll/internal/swapi"
)

// Options are the persistent flags shared by every command
type Options struct {
	ConfigPath string
	Debug      bool
	LogFile    string
}

// app holds the services built from configuration
type app struct {
	cfg      *config.Config
	cfgSvc   config.ConfigService
	bus      eventbus.EventBus
	cache    *query.Client
	swapi    *swapi.Client
	blog     *blog.Service
	closeLog func() error
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "swscroll [screen]",
		Short: "Bidirectional infinite scrolling over SWAPI, plus a blog viewer",
		Long: "swscroll browses the Star Wars API with a pager that grows both ways from an anchor page.\n" +
			"Screens: home, starships, species, people, posts.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := ""
			if len(args) == 1 {
				screen = args[0]
			}
			return runTUI(cmd.Context(), opts, screen)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "log file path, - for stderr (overrides log.file)")

	rootCmd.AddCommand(
		newWalkCommand(opts),
		newConfigCommand(opts),
	)

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newApp loads configuration, sets up logging and builds the API clients
func newApp(opts *Options, logFallback string) (*app, error) {
	bus := eventbus.New()

	cfgSvc := config.NewConfigServiceWithBus(opts.ConfigPath, bus)
	cfg, err := cfgSvc.Load()
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile := cfg.Log.File
	if logFallback != "" && logFile == config.DefaultConfig().Log.File {
		logFile = logFallback
	}
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}
	closeLog, err := logging.Setup(logging.Options{File: logFile, Level: cfg.Log.Level, Debug: opts.Debug})
	if err != nil {
		bus.Close()
		return nil, err
	}

	sw, err := swapi.New(cfg.API.SwapiBase, cfg.API.Timeout)
	if err != nil {
		bus.Close()
		_ = closeLog()
		return nil, err
	}
	blogClient, err := blog.NewClient(cfg.API.BlogBase, cfg.API.Timeout)
	if err != nil {
		bus.Close()
		_ = closeLog()
		return nil, err
	}

	cache := query.NewClient(cfg.Cache.GCTime)

	logrus.WithFields(logrus.Fields{
		"component": "cli",
		"config":    cfgSvc.Path(),
		"swapi":     cfg.API.SwapiBase,
		"blog":      cfg.API.BlogBase,
	}).Info("starting")

	return &app{
		cfg:      cfg,
		cfgSvc:   cfgSvc,
		bus:      bus,
		cache:    cache,
		swapi:    sw,
		blog:     blog.NewService(blogClient, cache, bus, cfg.Cache.StaleTime, cfg.Blog.MaxPostPage),
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	a.bus.Close()
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log: %v\n", err)
	}
}
