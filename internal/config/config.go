package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const defaultRatingsCacheSize = 1000

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Rating model service. Lookup is on whenever RATINGS_URL is set unless
	// RATINGS_ENABLED says otherwise.
	RatingsURL       string
	RatingsToken     string
	RatingsEnabled   bool
	RatingsTimeout   time.Duration
	RatingsCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-field-visit-measurements"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "field-visit-report-rows"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "field-visit-etl"),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.ShutdownTimeout, err = sharedcfg.ParseShutdownTimeout(); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = sharedcfg.ParseBatchSize(); err != nil {
		return nil, err
	}
	if cfg.BatchFlushInterval, err = sharedcfg.ParseBatchFlushInterval(); err != nil {
		return nil, err
	}
	if err := cfg.loadRatings(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadRatings() error {
	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("RATINGS_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return errors.New("invalid RATINGS_TIMEOUT")
	}

	c.RatingsURL = os.Getenv("RATINGS_URL")
	c.RatingsToken = os.Getenv("RATINGS_TOKEN")
	c.RatingsTimeout = timeout
	c.RatingsCacheSize = parseRatingsCacheSize()
	c.RatingsEnabled = c.RatingsURL != ""
	if v := os.Getenv("RATINGS_ENABLED"); v != "" {
		c.RatingsEnabled = v == "true"
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if !c.RatingsEnabled {
		return nil
	}
	if c.RatingsURL == "" {
		return errors.New("RATINGS_ENABLED is true but RATINGS_URL is not set")
	}
	u, err := url.Parse(c.RatingsURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid RATINGS_URL %q: must be an absolute http(s) URL", c.RatingsURL)
	}
	return nil
}

// parseRatingsCacheSize falls back to the default for unset, malformed, or
// non-positive values.
func parseRatingsCacheSize() int {
	if s := os.Getenv("RATINGS_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return defaultRatingsCacheSize
}
