package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/khabarwire/khabar/pkg/cache"
	"github.com/khabarwire/khabar/pkg/config"
	"github.com/khabarwire/khabar/pkg/content"
	"github.com/khabarwire/khabar/pkg/feed"
	"github.com/khabarwire/khabar/pkg/notify"
	"github.com/khabarwire/khabar/pkg/push"
	"github.com/khabarwire/khabar/pkg/scheduler"
	"github.com/khabarwire/khabar/pkg/store"
	"github.com/khabarwire/khabar/server"
)

// Opts with all CLI options
type Opts struct {
	Config    string `short:"c" long:"config" env:"CONFIG" description:"path to config file, built-in defaults if not set"`
	Listen    string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	Scheduler string `long:"scheduler" env:"RUN_SCHEDULER" choice:"true" choice:"false" description:"run periodic check on this instance, overrides config"`

	OneSignal struct {
		AppID   string `long:"app-id" env:"APP_ID" description:"onesignal app id"`
		RESTKey string `long:"rest-key" env:"REST_KEY" description:"onesignal rest api key"`
	} `group:"onesignal" namespace:"onesignal" env-namespace:"ONESIGNAL"`

	// Common options
	Dbg     bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("failed to load .env: %v\n", err)
	}

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Dbg, opts.NoColor)
	lgr.Printf("[INFO] starting khabar version %s", revision)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly above
	}
	lgr.Printf("[INFO] shutdown complete")
}

// run wires all components and blocks until the server stops
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if secrets := cfg.Secrets(); len(secrets) > 0 {
		setupLog(opts.Dbg, opts.NoColor, secrets...)
	}
	lgr.Printf("[INFO] %d feeds configured, push provider %s, store %s:%s",
		len(cfg.Feeds), cfg.Notify.Provider, cfg.Store.Type, cfg.Store.Path)

	aggregator := feed.NewAggregator(feed.AggregatorParams{
		Sources: cfg.Sources(),
		Fetcher: feed.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		Images: content.NewImageResolver(content.ImageResolverParams{
			Timeout:   cfg.Image.Timeout,
			UserAgent: cfg.Image.UserAgent,
			MaxBody:   cfg.Image.MaxBody,
			DeepScan:  cfg.Image.DeepScan,
		}),
		FullLimit:  cfg.Fetch.FullLimit,
		LightLimit: cfg.Fetch.LightLimit,
	})

	notified, err := store.New(ctx, cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := notified.Close(); err != nil {
			lgr.Printf("[WARN] failed to close store: %v", err)
		}
	}()
	lgr.Printf("[INFO] %d notified articles loaded", notified.Len())

	sender, err := push.New(ctx, cfg.Notify)
	if err != nil {
		return fmt.Errorf("failed to make push sender: %w", err)
	}

	dispatcher := notify.NewDispatcher(notify.Params{
		Scorer:            notify.NewScorer(cfg.Notify.Keywords, cfg.Notify.EmergencyKeywords),
		Store:             notified,
		Sender:            sender,
		Cooldown:          cfg.Notify.Cooldown,
		MinScore:          cfg.Notify.MinScore,
		EmergencyOverride: cfg.Notify.EmergencyOverride,
		DefaultBody:       cfg.Notify.DefaultBody,
	})

	sched := scheduler.NewScheduler(scheduler.Params{
		Aggregator: aggregator,
		Dispatcher: dispatcher,
		Interval:   cfg.Schedule.Interval,
		Enabled:    cfg.Schedule.Enabled,
		QueueSize:  cfg.Schedule.QueueSize,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(server.Params{
		Config:   cfg,
		News:     aggregator,
		Cache:    cache.New(cfg.Cache.TTL),
		Notifier: sched,
		Status:   dispatcher,
		Version:  revision,
		Debug:    opts.Dbg,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads config file if set and applies command line overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.Scheduler != "" {
		enabled, err := strconv.ParseBool(opts.Scheduler)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler flag %q: %w", opts.Scheduler, err)
		}
		cfg.Schedule.Enabled = enabled
	}
	if opts.OneSignal.AppID != "" {
		cfg.Notify.OneSignal.AppID = opts.OneSignal.AppID
	}
	if opts.OneSignal.RESTKey != "" {
		cfg.Notify.OneSignal.RESTKey = opts.OneSignal.RESTKey
	}
	return cfg, nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
