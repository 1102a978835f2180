package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"surebet-scanner/internal/alerting"
	"surebet-scanner/internal/api"
	"surebet-scanner/internal/config"
	"surebet-scanner/internal/fetcher"
	"surebet-scanner/internal/report"
	"surebet-scanner/internal/scheduler"
	"surebet-scanner/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Out receives command output; os.Stdout unless a test swaps it.
	Out io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
}

func (a *App) newFetcher() (fetcher.PageFetcher, error) {
	fc := a.Config.Fetch
	plain := fetcher.NewHTTP(fetcher.HTTPOptions{Timeout: fc.Timeout, UserAgent: fc.UserAgent}, a.Logger)
	browser := fetcher.NewBrowser(fetcher.BrowserOptions{
		Timeout:     fc.Browser.Timeout,
		UserAgent:   fc.UserAgent,
		ExecPath:    fc.Browser.ExecPath,
		ScrollSteps: fc.Browser.ScrollSteps,
		ScrollPause: fc.Browser.ScrollPause,
		SettleDelay: fc.Browser.SettleDelay,
	}, a.Logger)
	opts := fetcher.FallbackOptions{
		MinBytes:    fc.MinBytes,
		MinDecimals: fc.MinDecimals,
		Attempts:    fc.Attempts,
		RetryDelay:  fc.RetryDelay,
	}

	switch strings.ToLower(fc.Mode) {
	case "http":
		return fetcher.NewFallback(opts, a.Logger, plain), nil
	case "browser":
		return fetcher.NewFallback(opts, a.Logger, browser), nil
	case "auto":
		return fetcher.NewFallback(opts, a.Logger, plain, browser), nil
	case "file":
		return fetcher.File{Dir: fc.DumpDir}, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", fc.Mode)
	}
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return nil
}

func (a *App) newScheduler() *scheduler.Scheduler {
	return scheduler.New(scheduler.Options{
		Interval:       a.Config.Scheduler.Interval,
		AlignToStart:   a.Config.Scheduler.AlignToBucket,
		StartupDelay:   a.Config.Scheduler.StartupDelay,
		RunImmediately: a.Config.Scheduler.RunImmediately,
	}, a.Logger)
}

func (a *App) newScanner(sched *scheduler.Scheduler) (*service.Scanner, error) {
	pf, err := a.newFetcher()
	if err != nil {
		return nil, err
	}
	return service.New(a.Config, sched, pf, a.newNotifier(), a.Logger), nil
}

// Run executes the long-running scan loop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := a.newScanner(a.newScheduler())
	if err != nil {
		return err
	}

	a.Logger.Info().Strs("sports", a.Config.EnabledSports()).Msg("starting scan loop")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("scan loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("scan loop stopped")
	return nil
}

// Serve runs the HTTP query layer next to the scan loop.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := a.newScanner(a.newScheduler())
	if err != nil {
		return err
	}
	server := api.NewServer(a.Config.API, svc, a.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx)
	})
	g.Go(func() error {
		err := svc.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info().Msg("api stopped")
	return nil
}

// ScanOptions configure a one-shot scan.
type ScanOptions struct {
	Sports []string
	Quiet  bool
}

// Scan runs one cycle over the requested sports (all enabled when empty) and
// prints the text reports. Sport failures are reported but do not hide the
// reports that succeeded.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	svc, err := a.newScanner(nil)
	if err != nil {
		return err
	}

	sports := opts.Sports
	if len(sports) == 0 {
		sports = a.Config.EnabledSports()
	}

	var errs []error
	for _, sport := range sports {
		r, err := svc.ScanSport(ctx, sport)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.Logger.Error().Err(err).Str("sport", sport).Msg("scan failed")
			errs = append(errs, fmt.Errorf("%s: %w", sport, err))
			continue
		}
		if !opts.Quiet {
			if err := a.printReport(r); err != nil {
				return err
			}
		}
	}
	if len(errs) == len(sports) && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (a *App) printReport(r report.Report) error {
	if err := report.WriteText(a.Out, r); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.Out)
	return err
}

// ExportOptions hold parameters for exporting a saved report.
type ExportOptions struct {
	Input   string
	PNGPath string
	CSVPath string
	MinROI  float64
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Input   string
	Matches bool
	Limit   int
}

// ReplayOptions configure offline analysis of captured dumps.
type ReplayOptions struct {
	Sport   string
	File    string
	Dir     string
	Pattern string
	Write   bool
}
