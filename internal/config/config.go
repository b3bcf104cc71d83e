package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Analysis delegate (SHARPpy sidecar).
	AnalysisURL     string
	AnalysisTimeout time.Duration

	// Model sounding source.
	ModelDataURL     string
	ModelDataTimeout time.Duration
	DefaultModel     string

	// Visual Crossing weather API.
	VisualCrossingKey       string
	VisualCrossingEnabled   bool
	VisualCrossingTimeout   time.Duration
	VisualCrossingCacheSize int

	// Optional report sink topic.
	KafkaBrokers     []string
	KafkaReportTopic string
	KafkaEnabled     bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	analysisTimeout, err := parseDuration("ANALYSIS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	modelDataTimeout, err := parseDuration("MODEL_DATA_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	vcTimeout, err := parseDuration("VISUAL_CROSSING_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	vcKey := os.Getenv("VISUAL_CROSSING_API_KEY")
	vcEnabled := vcKey != ""
	if v := os.Getenv("VISUAL_CROSSING_ENABLED"); v != "" {
		vcEnabled = v == "true"
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AnalysisURL:     envOrDefault("ANALYSIS_URL", "http://localhost:8090"),
		AnalysisTimeout: analysisTimeout,

		ModelDataURL:     envOrDefault("MODEL_DATA_URL", "https://thredds.ucar.edu/point"),
		ModelDataTimeout: modelDataTimeout,
		DefaultModel:     envOrDefault("DEFAULT_MODEL", "gfs"),

		VisualCrossingKey:       vcKey,
		VisualCrossingEnabled:   vcEnabled,
		VisualCrossingTimeout:   vcTimeout,
		VisualCrossingCacheSize: parseCacheSize(),

		KafkaBrokers:     kafkaBrokers,
		KafkaReportTopic: envOrDefault("KAFKA_REPORT_TOPIC", "sounding-reports"),
		KafkaEnabled:     kafkaEnabled,
	}

	if cfg.AnalysisURL == "" {
		return nil, errors.New("ANALYSIS_URL is required")
	}
	if cfg.VisualCrossingEnabled && cfg.VisualCrossingKey == "" {
		return nil, errors.New("VISUAL_CROSSING_ENABLED is true but VISUAL_CROSSING_API_KEY is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseCacheSize() int {
	if s := os.Getenv("VISUAL_CROSSING_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
