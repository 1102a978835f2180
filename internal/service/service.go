package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"surebet-scanner/internal/alerting"
	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/config"
	"surebet-scanner/internal/extract"
	"surebet-scanner/internal/fetcher"
	"surebet-scanner/internal/market"
	"surebet-scanner/internal/report"
	"surebet-scanner/internal/scheduler"
	"surebet-scanner/internal/tokenizer"
)

// ErrNoPages is returned when every page of a sport failed to load.
var ErrNoPages = errors.New("no page could be fetched")

// Page is one loaded page ready for parsing.
type Page struct {
	Info    extract.PageInfo
	Source  string
	Content string
}

// Scanner orchestrates fetching, parsing, detection, reporting and alerting.
type Scanner struct {
	cfg       *config.Config
	scheduler *scheduler.Scheduler
	fetcher   fetcher.PageFetcher
	notifier  alerting.Notifier
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	latest  map[string]report.Report
	updated time.Time
}

// New constructs the scanner. sched and notifier may be nil.
func New(cfg *config.Config, sched *scheduler.Scheduler, pf fetcher.PageFetcher, notifier alerting.Notifier, logger zerolog.Logger) *Scanner {
	return &Scanner{
		cfg:       cfg,
		scheduler: sched,
		fetcher:   pf,
		notifier:  notifier,
		logger:    logger.With().Str("component", "scanner").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
		latest:    make(map[string]report.Report),
	}
}

// Run begins the periodic scan loop.
func (s *Scanner) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.Cycle)
}

// Cycle runs one scan of every enabled sport.
func (s *Scanner) Cycle(ctx context.Context, cycle time.Time) error {
	reports, err := s.ScanAll(ctx)
	surebets := 0
	for _, r := range reports {
		surebets += len(r.Surebets)
	}
	s.logger.Info().Time("cycle", cycle).Int("sports", len(reports)).Int("surebets", surebets).Msg("cycle complete")
	return err
}

// ScanAll scans the enabled sports concurrently. A failing sport is logged
// and does not stop the others; the failures come back joined.
func (s *Scanner) ScanAll(ctx context.Context) (map[string]report.Report, error) {
	sports := s.cfg.EnabledSports()

	var (
		mu      sync.Mutex
		reports = make(map[string]report.Report, len(sports))
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	if limit := s.cfg.Fetch.Concurrency; limit > 0 {
		g.SetLimit(limit)
	}
	for _, sport := range sports {
		sport := sport
		g.Go(func() error {
			r, err := s.ScanSport(gctx, sport)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error().Err(err).Str("sport", sport).Msg("sport scan failed")
				errs = append(errs, fmt.Errorf("%s: %w", sport, err))
				return nil
			}
			reports[sport] = r
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}

// ScanSport fetches and analyses every configured page of one sport, writes
// the report files, sends the alert and publishes the report.
func (s *Scanner) ScanSport(ctx context.Context, sport string) (report.Report, error) {
	if s.fetcher == nil {
		return report.Report{}, fmt.Errorf("fetcher not configured")
	}
	pages, err := s.cfg.PagesFor(sport)
	if err != nil {
		return report.Report{}, err
	}

	log := s.logger.With().Str("sport", sport).Logger()
	loaded := make([]Page, 0, len(pages))
	for i, pc := range pages {
		content, err := s.fetcher.Fetch(ctx, pc.URL)
		if err != nil {
			if ctx.Err() != nil {
				return report.Report{}, ctx.Err()
			}
			log.Error().Err(err).Str("url", pc.URL).Msg("page fetch failed")
			continue
		}
		loaded = append(loaded, Page{
			Info:    extract.PageInfo{Index: i + 1, RangeTag: pc.RangeTag},
			Source:  pc.URL,
			Content: content,
		})
	}
	if len(loaded) == 0 {
		return report.Report{}, ErrNoPages
	}

	r, err := s.Analyze(sport, loaded)
	if err != nil {
		return report.Report{}, err
	}
	s.deliver(ctx, r)
	return r, nil
}

// AnalyzeFile parses a captured HTML or text dump from disk.
func (s *Scanner) AnalyzeFile(sport, path string) (report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.Report{}, err
	}
	return s.Analyze(sport, []Page{{Info: extract.PageInfo{Index: 1}, Source: path, Content: string(data)}})
}

// ReplayDir parses every dump in dir matching pattern as pages of one scan.
func (s *Scanner) ReplayDir(sport, dir, pattern string) (report.Report, error) {
	if pattern == "" {
		pattern = "index_*.txt"
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return report.Report{}, err
	}
	if len(paths) == 0 {
		return report.Report{}, fmt.Errorf("no dumps matching %s in %s", pattern, dir)
	}
	sort.Strings(paths)

	pages := make([]Page, 0, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return report.Report{}, err
		}
		pages = append(pages, Page{
			Info:    extract.PageInfo{Index: i + 1, RangeTag: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))},
			Source:  path,
			Content: string(data),
		})
	}
	return s.Analyze(sport, pages)
}

// Analyze runs the parsing and detection pipeline over loaded pages.
// Matches repeated across pages are kept once.
func (s *Scanner) Analyze(sport string, pages []Page) (report.Report, error) {
	profile, err := s.cfg.Profile(sport)
	if err != nil {
		return report.Report{}, err
	}
	log := s.logger.With().Str("sport", sport).Logger()

	teams := extract.NewTeamValidator(s.cfg.Arbitrage.MinTeamLength, s.cfg.Arbitrage.Stoplist)
	parser := extract.NewParser(profile, teams, s.logger)

	seen := make(map[string]bool)
	var matches []market.MatchRecord
	for _, page := range pages {
		tokens := Tokens(page.Content, s.cfg.Tokenizer)
		if len(tokens) == 0 {
			log.Info().Str("source", page.Source).Msg("no data on page, 0 matches")
			continue
		}
		for _, m := range parser.ParsePage(tokens, page.Info) {
			key := m.Name() + "|" + m.Context.Time
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, m)
		}
	}

	opps := arbitrage.NewDetector(profile, s.logger).Detect(matches)
	r := report.Build(sport, sourceOf(pages), matches, opps, s.now())
	log.Info().Int("matches", r.TotalMatches).Int("surebets", len(r.Surebets)).Int("actionable", len(r.Actionable())).Msg("sport analysed")
	return r, nil
}

// Tokens picks the HTML tokenizer or the line splitter by content.
func Tokens(content string, opts tokenizer.Options) []string {
	if looksLikeHTML(content) {
		return tokenizer.Tokenize(content, opts)
	}
	return tokenizer.Lines(content, opts)
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<") || strings.Contains(head, "<html") || strings.Contains(head, "<body")
}

func sourceOf(pages []Page) string {
	switch len(pages) {
	case 0:
		return ""
	case 1:
		return pages[0].Source
	default:
		return fmt.Sprintf("%s (+%d pages)", pages[0].Source, len(pages)-1)
	}
}

func (s *Scanner) deliver(ctx context.Context, r report.Report) {
	log := s.logger.With().Str("sport", r.Sport).Logger()

	if dir := s.cfg.Output.Dir; dir != "" && len(s.cfg.Output.Formats) > 0 {
		paths, err := report.WriteFiles(dir, r, s.cfg.Output.Formats)
		if err != nil {
			log.Error().Err(err).Msg("failed to write report files")
		} else {
			log.Debug().Strs("files", paths).Msg("report files written")
		}
	}

	if s.cfg.Alerting.Enabled && s.notifier != nil && len(r.Actionable()) > 0 {
		note := alerting.Notification{Report: r, Limit: s.cfg.Alerting.SummaryLimit}
		if err := s.notifier.Notify(ctx, note); err != nil {
			log.Error().Err(err).Msg("failed to dispatch alert")
		}
	}

	s.Publish(r)
}

// Publish stores r as the latest report of its sport.
func (s *Scanner) Publish(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[r.Sport] = r
	s.updated = s.now()
}

// Latest returns the most recent report of every sport, sorted by sport.
func (s *Scanner) Latest() []report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]report.Report, 0, len(s.latest))
	for _, r := range s.latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sport < out[j].Sport })
	return out
}

// LatestFor returns the most recent report of one sport.
func (s *Scanner) LatestFor(sport string) (report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[sport]
	return r, ok
}

// Updated returns when a report was last published; zero before the first.
func (s *Scanner) Updated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
