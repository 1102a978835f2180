package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"surebet-scanner/internal/arbitrage"
	"surebet-scanner/internal/logging"
	"surebet-scanner/internal/market"
	"surebet-scanner/internal/tokenizer"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig              `mapstructure:"app"`
	Logging   logging.Config         `mapstructure:"logging"`
	Scheduler SchedulerConfig        `mapstructure:"scheduler"`
	Fetch     FetchConfig            `mapstructure:"fetch"`
	Tokenizer tokenizer.Options      `mapstructure:"tokenizer"`
	Arbitrage ArbitrageConfig        `mapstructure:"arbitrage"`
	Sports    map[string]SportConfig `mapstructure:"sports"`
	Output    OutputConfig           `mapstructure:"output"`
	Alerting  AlertingConfig         `mapstructure:"alerting"`
	API       APIConfig              `mapstructure:"api"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	EnvFile     string `mapstructure:"env_file"`
}

// SchedulerConfig governs scan cadence.
type SchedulerConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	AlignToBucket  bool          `mapstructure:"align_to_bucket"`
	StartupDelay   time.Duration `mapstructure:"startup_delay"`
	RunImmediately bool          `mapstructure:"run_immediately"`
}

// FetchConfig selects and tunes the page fetchers.
type FetchConfig struct {
	// Mode is one of http, browser, auto (http then browser) or file.
	Mode        string        `mapstructure:"mode"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	Attempts    int           `mapstructure:"attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	MinBytes    int           `mapstructure:"min_bytes"`
	MinDecimals int           `mapstructure:"min_decimals"`
	DumpDir     string        `mapstructure:"dump_dir"`
	Concurrency int           `mapstructure:"concurrency"`
	Browser     BrowserConfig `mapstructure:"browser"`
}

// BrowserConfig tunes headless Chrome rendering.
type BrowserConfig struct {
	ExecPath    string        `mapstructure:"exec_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ScrollSteps int           `mapstructure:"scroll_steps"`
	ScrollPause time.Duration `mapstructure:"scroll_pause"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// ArbitrageConfig holds the defaults shared by every sport.
type ArbitrageConfig struct {
	MinProfitPct     float64  `mapstructure:"min_profit_pct"`
	TotalStake       float64  `mapstructure:"total_stake"`
	MinStake         float64  `mapstructure:"min_stake"`
	MaxStake         float64  `mapstructure:"max_stake"`
	RoundTo          float64  `mapstructure:"round_to"`
	BestAggregate    bool     `mapstructure:"best_aggregate"`
	OnlineBookmakers []string `mapstructure:"online_bookmakers"`
	MinTeamLength    int      `mapstructure:"min_team_length"`
	Stoplist         []string `mapstructure:"stoplist"`
}

// SportConfig enables a sport and overrides its built-in profile.
type SportConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Profile names the built-in profile; defaults to the sport key.
	Profile string       `mapstructure:"profile"`
	Path    string       `mapstructure:"path"`
	Pages   int          `mapstructure:"pages"`
	URLs    []PageConfig `mapstructure:"urls"`

	WindowSize     int          `mapstructure:"window_size"`
	MinLabels      int          `mapstructure:"min_labels"`
	MinProfitPct   *float64     `mapstructure:"min_profit_pct"`
	TotalStake     *float64     `mapstructure:"total_stake"`
	RoundTo        *float64     `mapstructure:"round_to"`
	BestAggregate  *bool        `mapstructure:"best_aggregate"`
	RequireWeekday *bool        `mapstructure:"require_weekday"`
	MoneylineRange *RangeConfig `mapstructure:"moneyline_range"`
	ThresholdRange *RangeConfig `mapstructure:"threshold_range"`
}

// PageConfig is one page to scan for a sport.
type PageConfig struct {
	URL      string `mapstructure:"url"`
	RangeTag string `mapstructure:"range_tag"`
}

// RangeConfig overrides an odds range.
type RangeConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// OutputConfig controls report files.
type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

// AlertingConfig defines alert routing.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	SummaryLimit int            `mapstructure:"summary_limit"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// APIConfig configures the HTTP query layer.
type APIConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	// ScanOnStart triggers a refresh as soon as the listener starts. Leave it
	// off when scheduler.run_immediately already scans at startup.
	ScanOnStart bool `mapstructure:"scan_on_start"`
}

// Load builds configuration from file, .env, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SUREBET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}
	if err := loadEnvFile(v.GetString("app.env_file")); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile exports .env entries into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

var defaultSports = map[string]bool{
	"football":        true,
	"football-winner": false,
	"tennis":          true,
	"basketball":      true,
	"handball":        true,
	"hockey":          true,
	"nfl":             true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "surebet-scanner")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.env_file", ".env")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("scheduler.interval", "15m")
	v.SetDefault("scheduler.align_to_bucket", false)
	v.SetDefault("scheduler.startup_delay", "0s")
	v.SetDefault("scheduler.run_immediately", true)

	v.SetDefault("fetch.mode", "auto")
	v.SetDefault("fetch.base_url", "https://toptiket.rs/odds")
	v.SetDefault("fetch.timeout", "12s")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36")
	v.SetDefault("fetch.attempts", 2)
	v.SetDefault("fetch.retry_delay", "1500ms")
	v.SetDefault("fetch.min_bytes", 18000)
	v.SetDefault("fetch.min_decimals", 10)
	v.SetDefault("fetch.dump_dir", "data")
	v.SetDefault("fetch.concurrency", 2)
	v.SetDefault("fetch.browser.timeout", "60s")
	v.SetDefault("fetch.browser.scroll_steps", 3)
	v.SetDefault("fetch.browser.scroll_pause", "1s")
	v.SetDefault("fetch.browser.settle_delay", "3s")

	v.SetDefault("tokenizer.max_length", tokenizer.DefaultMaxLength)
	v.SetDefault("tokenizer.skip_tags", tokenizer.DefaultSkipTags)
	v.SetDefault("tokenizer.boilerplate", tokenizer.DefaultBoilerplate)

	v.SetDefault("arbitrage.min_profit_pct", 0.0)
	v.SetDefault("arbitrage.total_stake", 0.0)
	v.SetDefault("arbitrage.min_stake", 10000.0)
	v.SetDefault("arbitrage.max_stake", 15000.0)
	v.SetDefault("arbitrage.round_to", 100.0)
	v.SetDefault("arbitrage.best_aggregate", false)
	v.SetDefault("arbitrage.online_bookmakers", []string{"1xbet", "brazil bet", "brazilbet", "brazil", "365rs", "365.rs", "vivatbet", "vivat bet"})
	v.SetDefault("arbitrage.min_team_length", 4)

	for sport, enabled := range defaultSports {
		v.SetDefault("sports."+sport+".enabled", enabled)
		v.SetDefault("sports."+sport+".pages", 1)
	}
	v.SetDefault("sports.football.path", "football")
	v.SetDefault("sports.football-winner.path", "football")
	v.SetDefault("sports.tennis.path", "tennis")
	v.SetDefault("sports.basketball.path", "basketball")
	v.SetDefault("sports.handball.path", "handball")
	v.SetDefault("sports.hockey.path", "hockey")
	v.SetDefault("sports.nfl.path", "NFL")

	v.SetDefault("output.dir", "reports")
	v.SetDefault("output.formats", []string{"txt", "json"})

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.summary_limit", 12)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.chat_id", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")

	v.SetDefault("api.addr", ":8000")
	v.SetDefault("api.allowed_origins", []string{"*"})
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.scan_on_start", false)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

var fetchModes = map[string]bool{"http": true, "browser": true, "auto": true, "file": true}

var outputFormats = map[string]bool{"txt": true, "json": true, "csv": true, "png": true}

// Validate performs sanity checks on the configuration values and builds
// every enabled sport profile.
func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if !fetchModes[strings.ToLower(c.Fetch.Mode)] {
		return fmt.Errorf("fetch.mode %q must be one of http, browser, auto, file", c.Fetch.Mode)
	}
	if c.Fetch.Attempts < 0 {
		return fmt.Errorf("fetch.attempts cannot be negative")
	}
	if c.Fetch.Concurrency < 0 {
		return fmt.Errorf("fetch.concurrency cannot be negative")
	}
	for _, f := range c.Output.Formats {
		if !outputFormats[strings.ToLower(strings.TrimSpace(f))] {
			return fmt.Errorf("output.formats: unknown format %q", f)
		}
	}
	if c.Arbitrage.MinProfitPct < 0 {
		return fmt.Errorf("arbitrage.min_profit_pct cannot be negative")
	}
	if c.Arbitrage.RoundTo <= 0 {
		return fmt.Errorf("arbitrage.round_to must be greater than zero")
	}
	if c.Arbitrage.TotalStake <= 0 && c.Arbitrage.MinStake <= 0 {
		return fmt.Errorf("arbitrage.total_stake or arbitrage.min_stake must be greater than zero")
	}
	if c.Arbitrage.MaxStake > 0 && c.Arbitrage.MaxStake < c.Arbitrage.MinStake {
		return fmt.Errorf("arbitrage.max_stake cannot be below arbitrage.min_stake")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token 必须配置")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id 必须配置")
		}
	}
	for _, sport := range c.EnabledSports() {
		if _, err := c.Profile(sport); err != nil {
			return err
		}
	}
	return nil
}

// EnabledSports lists the enabled sport keys in sorted order.
func (c *Config) EnabledSports() []string {
	var out []string
	for name, sc := range c.Sports {
		if sc.Enabled {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Sport returns the sport section, or an error for an unknown sport.
func (c *Config) Sport(name string) (SportConfig, error) {
	sc, ok := c.Sports[name]
	if !ok {
		if _, builtin := market.Builtin(name); !builtin {
			return SportConfig{}, &market.ConfigError{Sport: name, Field: "sports", Reason: "unknown sport"}
		}
	}
	return sc, nil
}

// Profile builds the effective profile of a sport: the built-in profile,
// then the shared arbitrage defaults, then the sport overrides.
func (c *Config) Profile(name string) (market.Profile, error) {
	sc, err := c.Sport(name)
	if err != nil {
		return market.Profile{}, err
	}
	base := sc.Profile
	if base == "" {
		base = name
	}
	p, ok := market.Builtin(base)
	if !ok {
		return market.Profile{}, &market.ConfigError{Sport: name, Field: "profile", Reason: fmt.Sprintf("no built-in profile %q", base)}
	}
	p.Sport = name

	a := c.Arbitrage
	p.MinProfitPct = a.MinProfitPct
	p.BestAggregate = a.BestAggregate
	p.OnlineBookmakers = append([]string(nil), a.OnlineBookmakers...)
	p.RoundTo = decimal.NewFromFloat(a.RoundTo)
	p.TotalStake = c.totalStake(a.TotalStake)

	if sc.WindowSize > 0 {
		p.WindowSize = sc.WindowSize
	}
	if sc.MinLabels > 0 {
		p.MinLabels = sc.MinLabels
	}
	if sc.MinProfitPct != nil {
		p.MinProfitPct = *sc.MinProfitPct
	}
	if sc.TotalStake != nil {
		p.TotalStake = c.totalStake(*sc.TotalStake)
	}
	if sc.RoundTo != nil {
		p.RoundTo = decimal.NewFromFloat(*sc.RoundTo)
	}
	if sc.BestAggregate != nil {
		p.BestAggregate = *sc.BestAggregate
	}
	if sc.RequireWeekday != nil {
		p.RequireWeekday = *sc.RequireWeekday
	}
	if sc.MoneylineRange != nil {
		p.Ranges[market.ClassMoneyline] = market.Range{Min: sc.MoneylineRange.Min, Max: sc.MoneylineRange.Max}
	}
	if sc.ThresholdRange != nil {
		p.Ranges[market.ClassThreshold] = market.Range{Min: sc.ThresholdRange.Min, Max: sc.ThresholdRange.Max}
	}

	if err := p.Check(); err != nil {
		return market.Profile{}, err
	}
	return p, nil
}

func (c *Config) totalStake(explicit float64) decimal.Decimal {
	return arbitrage.ChooseTotalStake(
		decimal.NewFromFloat(c.Arbitrage.MinStake),
		decimal.NewFromFloat(c.Arbitrage.MaxStake),
		decimal.NewFromFloat(explicit),
	)
}

// PagesFor lists the pages to scan for a sport. Explicit urls win; otherwise
// base_url/path is used, with ?page=N for pages beyond the first.
func (c *Config) PagesFor(name string) ([]PageConfig, error) {
	sc, err := c.Sport(name)
	if err != nil {
		return nil, err
	}
	if len(sc.URLs) > 0 {
		return append([]PageConfig(nil), sc.URLs...), nil
	}
	path := sc.Path
	if path == "" {
		path = name
	}
	base, err := url.JoinPath(c.Fetch.BaseURL, path)
	if err != nil {
		return nil, fmt.Errorf("sports.%s.path: %w", name, err)
	}
	count := sc.Pages
	if count < 1 {
		count = 1
	}
	pages := make([]PageConfig, 0, count)
	for i := 1; i <= count; i++ {
		page := PageConfig{URL: base}
		if i > 1 {
			page.URL = fmt.Sprintf("%s?page=%d", base, i)
			page.RangeTag = fmt.Sprintf("page-%d", i)
		}
		pages = append(pages, page)
	}
	return pages, nil
}
