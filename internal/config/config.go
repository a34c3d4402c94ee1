package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "TREND_RADAR_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	analyzerKeyEnv   = "OPENAI_API_KEY"
	analyzerModelEnv = "OPENAI_MODEL"
	smtpServerEnv    = "SMTP_SERVER"
	smtpPortEnv      = "SMTP_PORT"
	smtpUserEnv      = "SMTP_USERNAME"
	smtpPassEnv      = "SMTP_PASSWORD"
	emailFromEnv     = "EMAIL_FROM"
	emailToEnv       = "EMAIL_TO"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Email      EmailConfig      `yaml:"email"`
	Scraping   ScrapingConfig   `yaml:"scraping"`
	Feeds      []FeedConfig     `yaml:"feeds"`
	Companies  []CompanyConfig  `yaml:"companies"`
}

// LoggingConfig controls slog construction.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig points at the snapshot/history files and optional Postgres.
type StorageConfig struct {
	SnapshotsDir        string `yaml:"snapshotsDir"`
	HistoryFile         string `yaml:"historyFile"`
	ReportsDir          string `yaml:"reportsDir"`
	DatabaseDSN         string `yaml:"databaseDsn"`
	SnapshotsPerCompany int    `yaml:"snapshotsPerCompany"`
}

// SchedulerConfig defines when recurring runs execute.
type SchedulerConfig struct {
	IntervalHours int            `yaml:"intervalHours"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NewsletterConfig carries the selection thresholds and weight table.
type NewsletterConfig struct {
	MinScore            float64            `yaml:"minScore"`
	SimilarityThreshold float64            `yaml:"similarityThreshold"`
	MaxAgeDays          int                `yaml:"maxAgeDays"`
	MaxArticles         int                `yaml:"maxArticles"`
	SubjectPrefix       string             `yaml:"subjectPrefix"`
	Weights             map[string]float64 `yaml:"weights"`
}

// AnalyzerConfig defines how to contact the OpenAI-compatible scoring API.
type AnalyzerConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	Context  string `yaml:"context"`
}

// EmailConfig wires SMTP delivery of the rendered newsletter.
type EmailConfig struct {
	Server     string   `yaml:"server"`
	Port       int      `yaml:"port"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	From       string   `yaml:"from"`
	Recipients []string `yaml:"recipients"`
}

// ScrapingConfig tunes the company page scrapers.
type ScrapingConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
	UserAgent      string `yaml:"userAgent"`
}

// FeedConfig describes one RSS source feeding the newsletter pipeline.
type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Section string `yaml:"section"`
	Limit   int    `yaml:"limit"`
}

// CompanyConfig describes one tracked competitor and its scraper strategy.
type CompanyConfig struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Scraper string            `yaml:"scraper"`
	Pages   map[string]string `yaml:"pages"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file next to the binary is honored when it exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DatabaseDSN = v
	}
	if v := os.Getenv(analyzerKeyEnv); v != "" {
		c.Analyzer.APIKey = v
	}
	if v := os.Getenv(analyzerModelEnv); v != "" {
		c.Analyzer.Model = v
	}
	if v := os.Getenv(smtpServerEnv); v != "" {
		c.Email.Server = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.Port = port
		}
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.Email.Username = v
	}
	if v := os.Getenv(smtpPassEnv); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv(emailFromEnv); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		recipients := strings.Split(v, ",")
		c.Email.Recipients = c.Email.Recipients[:0]
		for _, r := range recipients {
			if r = strings.TrimSpace(r); r != "" {
				c.Email.Recipients = append(c.Email.Recipients, r)
			}
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Storage.SnapshotsDir != "" {
		base.Storage.SnapshotsDir = override.Storage.SnapshotsDir
	}
	if override.Storage.HistoryFile != "" {
		base.Storage.HistoryFile = override.Storage.HistoryFile
	}
	if override.Storage.ReportsDir != "" {
		base.Storage.ReportsDir = override.Storage.ReportsDir
	}
	if override.Storage.DatabaseDSN != "" {
		base.Storage.DatabaseDSN = override.Storage.DatabaseDSN
	}
	if override.Storage.SnapshotsPerCompany > 0 {
		base.Storage.SnapshotsPerCompany = override.Storage.SnapshotsPerCompany
	}

	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Newsletter.MinScore > 0 {
		base.Newsletter.MinScore = override.Newsletter.MinScore
	}
	if override.Newsletter.SimilarityThreshold > 0 {
		base.Newsletter.SimilarityThreshold = override.Newsletter.SimilarityThreshold
	}
	if override.Newsletter.MaxAgeDays > 0 {
		base.Newsletter.MaxAgeDays = override.Newsletter.MaxAgeDays
	}
	if override.Newsletter.MaxArticles > 0 {
		base.Newsletter.MaxArticles = override.Newsletter.MaxArticles
	}
	if override.Newsletter.SubjectPrefix != "" {
		base.Newsletter.SubjectPrefix = override.Newsletter.SubjectPrefix
	}
	if len(override.Newsletter.Weights) > 0 {
		base.Newsletter.Weights = override.Newsletter.Weights
	}

	if override.Analyzer.Endpoint != "" {
		base.Analyzer.Endpoint = override.Analyzer.Endpoint
	}
	if override.Analyzer.Model != "" {
		base.Analyzer.Model = override.Analyzer.Model
	}
	if override.Analyzer.APIKey != "" {
		base.Analyzer.APIKey = override.Analyzer.APIKey
	}
	if override.Analyzer.Context != "" {
		base.Analyzer.Context = override.Analyzer.Context
	}

	if override.Email.Server != "" {
		base.Email.Server = override.Email.Server
	}
	if override.Email.Port > 0 {
		base.Email.Port = override.Email.Port
	}
	if override.Email.Username != "" {
		base.Email.Username = override.Email.Username
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}
	if len(override.Email.Recipients) > 0 {
		base.Email.Recipients = override.Email.Recipients
	}

	if override.Scraping.TimeoutSeconds > 0 {
		base.Scraping.TimeoutSeconds = override.Scraping.TimeoutSeconds
	}
	if override.Scraping.MaxRetries > 0 {
		base.Scraping.MaxRetries = override.Scraping.MaxRetries
	}
	if override.Scraping.UserAgent != "" {
		base.Scraping.UserAgent = override.Scraping.UserAgent
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Companies) > 0 {
		base.Companies = override.Companies
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			SnapshotsDir:        "data/snapshots",
			HistoryFile:         "data/newsletter_history.json",
			ReportsDir:          "data/reports",
			SnapshotsPerCompany: 90,
		},
		Scheduler: SchedulerConfig{IntervalHours: 168, Timezone: defaultTimezone, location: tz},
		Newsletter: NewsletterConfig{
			MinScore:            6.0,
			SimilarityThreshold: 0.75,
			MaxAgeDays:          7,
			MaxArticles:         12,
			SubjectPrefix:       "CFT Trend Radar",
		},
		Analyzer: AnalyzerConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Email: EmailConfig{Server: "smtp.gmail.com", Port: 587},
		Scraping: ScrapingConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
			UserAgent:      "TrendRadar-CompetitiveIntel/1.0",
		},
		Feeds: []FeedConfig{
			{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Section: "worldwide", Limit: 15},
		},
		Companies: []CompanyConfig{
			{
				ID:      "fixo",
				Name:    "FIXO",
				Scraper: "fixo",
				Pages: map[string]string{
					"home":      "https://fixo.pt",
					"services":  "https://fixo.pt/servicos",
					"pricing":   "https://fixo.pt/precos",
					"about":     "https://fixo.pt/sobre",
					"locations": "https://fixo.pt/localizacoes",
				},
			},
		},
	}
}
