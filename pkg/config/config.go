package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/khabarwire/khabar/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:3000,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Feeds []Feed `yaml:"feeds" json:"feeds" jsonschema:"description=News feeds to aggregate"`

	Fetch    FetchConfig    `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`
	Image    ImageConfig    `yaml:"image" json:"image" jsonschema:"description=Preview image scraping configuration"`
	Cache    CacheConfig    `yaml:"cache" json:"cache" jsonschema:"description=Response cache configuration"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify" jsonschema:"description=Push notification configuration"`
	Store    StoreConfig    `yaml:"store" json:"store" jsonschema:"description=Notified articles store configuration"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Background job configuration"`
}

// Feed is a single configured feed source
type Feed struct {
	Name          string `yaml:"name" json:"name" jsonschema:"description=Source name shown to clients"`
	URL           string `yaml:"url" json:"url" jsonschema:"required,description=RSS or Atom feed URL"`
	FallbackImage string `yaml:"fallback_image" json:"fallback_image" jsonschema:"description=Image used when an article has none"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Timeout for a single feed fetch"`
	FullLimit  int           `yaml:"full_limit" json:"full_limit" jsonschema:"default=10,minimum=1,description=Items taken per feed for client listing"`
	LightLimit int           `yaml:"light_limit" json:"light_limit" jsonschema:"default=5,minimum=1,description=Items taken per feed by the background job"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Khabar/1.0),description=User agent for feed requests"`
}

// ImageConfig holds preview image scraping settings
type ImageConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=6s,description=Timeout for a single page fetch"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0,description=User agent for page requests"`
	MaxBody   int64         `yaml:"max_body" json:"max_body" jsonschema:"default=1048576,description=Maximum page bytes to read"`
	DeepScan  bool          `yaml:"deep_scan" json:"deep_scan" jsonschema:"default=false,description=Use content extraction when no og:image or twitter:image is present"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=30m,description=Freshness window of the aggregated article list"`
}

// NotifyConfig holds push notification settings
type NotifyConfig struct {
	Cooldown          time.Duration   `yaml:"cooldown" json:"cooldown" jsonschema:"default=10m,description=Minimum time between two pushes"`
	MinScore          int             `yaml:"min_score" json:"min_score" jsonschema:"default=5,minimum=1,description=Minimum importance score to push"`
	Keywords          []string        `yaml:"keywords" json:"keywords" jsonschema:"description=High priority keywords, replaces the built-in list"`
	EmergencyOverride bool            `yaml:"emergency_override" json:"emergency_override" jsonschema:"default=false,description=Bypass cooldown when a candidate title has an emergency keyword"`
	EmergencyKeywords []string        `yaml:"emergency_keywords" json:"emergency_keywords" jsonschema:"description=Emergency keywords, replaces the built-in list"`
	DefaultBody       string          `yaml:"default_body" json:"default_body" jsonschema:"description=Body used when an article has no description"`
	Provider          string          `yaml:"provider" json:"provider" jsonschema:"default=onesignal,enum=onesignal,enum=sns,enum=none,description=Push provider"`
	OneSignal         OneSignalConfig `yaml:"onesignal" json:"onesignal" jsonschema:"description=OneSignal settings"`
	SNS               SNSConfig       `yaml:"sns" json:"sns" jsonschema:"description=AWS SNS settings"`
}

// OneSignalConfig holds OneSignal REST API settings
type OneSignalConfig struct {
	AppID    string        `yaml:"app_id" json:"app_id" jsonschema:"description=OneSignal app id (can use environment variable)"`
	RESTKey  string        `yaml:"rest_key" json:"rest_key" jsonschema:"description=OneSignal REST API key (can use environment variable)"`
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://onesignal.com/api/v1,description=OneSignal API base URL"`
	Segment  string        `yaml:"segment" json:"segment" jsonschema:"default=All,description=Target audience segment"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Request timeout"`
	Retries  int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Attempts on transient failures"`
}

// SNSConfig holds AWS SNS settings
type SNSConfig struct {
	TopicARN        string `yaml:"topic_arn" json:"topic_arn" jsonschema:"description=Topic to publish notifications to"`
	Region          string `yaml:"region" json:"region" jsonschema:"description=AWS region"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" jsonschema:"description=AWS access key id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" jsonschema:"description=AWS secret access key"`
}

// StoreConfig holds notified articles store settings
type StoreConfig struct {
	Type string `yaml:"type" json:"type" jsonschema:"default=file,enum=file,enum=sqlite,description=Store backend"`
	Path string `yaml:"path" json:"path" jsonschema:"default=notified.json,description=Store file path or sqlite DSN"`
}

// ScheduleConfig holds background job settings
type ScheduleConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Run the periodic job on this instance"`
	Interval  time.Duration `yaml:"interval" json:"interval" jsonschema:"default=5m,description=Periodic job interval"`
	QueueSize int           `yaml:"queue_size" json:"queue_size" jsonschema:"default=16,minimum=1,description=Pending dispatch batches"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Config{Schedule: ScheduleConfig{Enabled: true}}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finalize(&cfg)
}

// Default returns configuration with all defaults and the built-in feed list
func Default() *Config {
	cfg := Config{Schedule: ScheduleConfig{Enabled: true}}
	res, err := finalize(&cfg)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err)) // built-in values never fail validation
	}
	return res
}

func finalize(cfg *Config) (*Config, error) {
	setDefaults(cfg)

	// validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":3000"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}

	// feeds, name defaults to URL
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultFeeds()
	}
	for i := range cfg.Feeds {
		if cfg.Feeds[i].Name == "" {
			cfg.Feeds[i].Name = cfg.Feeds[i].URL
		}
	}

	// fetch
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 15 * time.Second
	}
	if cfg.Fetch.FullLimit == 0 {
		cfg.Fetch.FullLimit = 10
	}
	if cfg.Fetch.LightLimit == 0 {
		cfg.Fetch.LightLimit = 5
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "Mozilla/5.0 (compatible; Khabar/1.0)"
	}

	// image
	if cfg.Image.Timeout == 0 {
		cfg.Image.Timeout = 6 * time.Second
	}
	if cfg.Image.UserAgent == "" {
		cfg.Image.UserAgent = "Mozilla/5.0"
	}
	if cfg.Image.MaxBody == 0 {
		cfg.Image.MaxBody = 1 << 20
	}

	// cache
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 30 * time.Minute
	}

	// notify
	if cfg.Notify.Cooldown == 0 {
		cfg.Notify.Cooldown = 10 * time.Minute
	}
	if cfg.Notify.MinScore == 0 {
		cfg.Notify.MinScore = 5
	}
	if cfg.Notify.DefaultBody == "" {
		cfg.Notify.DefaultBody = "ताजा महत्वपूर्ण समाचार"
	}
	if cfg.Notify.Provider == "" {
		cfg.Notify.Provider = "onesignal"
	}
	if cfg.Notify.OneSignal.Endpoint == "" {
		cfg.Notify.OneSignal.Endpoint = "https://onesignal.com/api/v1"
	}
	if cfg.Notify.OneSignal.Segment == "" {
		cfg.Notify.OneSignal.Segment = "All"
	}
	if cfg.Notify.OneSignal.Timeout == 0 {
		cfg.Notify.OneSignal.Timeout = 10 * time.Second
	}
	if cfg.Notify.OneSignal.Retries == 0 {
		cfg.Notify.OneSignal.Retries = 3
	}

	// store
	if cfg.Store.Type == "" {
		cfg.Store.Type = "file"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "notified.json"
	}

	// schedule
	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = 5 * time.Minute
	}
	if cfg.Schedule.QueueSize == 0 {
		cfg.Schedule.QueueSize = 16
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}

	if cfg.Fetch.FullLimit < 1 || cfg.Fetch.LightLimit < 1 {
		return fmt.Errorf("fetch limits must be at least 1")
	}
	if cfg.Image.Timeout < 100*time.Millisecond {
		return fmt.Errorf("image timeout must be at least 100ms")
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative")
	}
	if cfg.Notify.Cooldown < 0 {
		return fmt.Errorf("notify cooldown must be non-negative")
	}
	if cfg.Notify.MinScore < 1 {
		return fmt.Errorf("notify min_score must be at least 1")
	}

	switch cfg.Notify.Provider {
	case "onesignal", "none":
	case "sns":
		if cfg.Notify.SNS.TopicARN == "" {
			return fmt.Errorf("notify.sns.topic_arn is required for sns provider")
		}
	default:
		return fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}

	if cfg.Store.Type != "file" && cfg.Store.Type != "sqlite" {
		return fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	if cfg.Schedule.Interval < time.Second {
		return fmt.Errorf("schedule interval must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// Sources returns configured feeds as domain sources
func (c *Config) Sources() []domain.FeedSource {
	res := make([]domain.FeedSource, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		res = append(res, domain.FeedSource{Name: f.Name, URL: f.URL, FallbackImage: f.FallbackImage})
	}
	return res
}

// Secrets returns credentials that should be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.Notify.OneSignal.RESTKey, c.Notify.SNS.SecretAccessKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
