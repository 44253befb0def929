package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the terminal.
type Config struct {
	AppName     string
	Environment string
	Backend     BackendConfig
	Print       PrintConfig
	Runner      RunnerConfig
	Stations    StationsConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type BackendConfig struct {
	// BaseURL of the plant backend. TLS certificate validation is
	// disabled on purpose: plants run self-signed certs. Insecure.
	BaseURL        string
	RequestTimeout time.Duration
	BulkTimeout    time.Duration
	SingleTimeout  time.Duration
}

type PrintConfig struct {
	TempDir string
	// LabelSizeMM is the physical footprint of generated QR labels.
	LabelSizeMM   float64
	LabelMarginMM float64
}

type RunnerConfig struct {
	Workers   int
	QueueSize int
}

type StationsConfig struct {
	// SawPair names the two co-manned saw positions. Selecting either
	// one forces secondary authorization for the other.
	SawPair [2]string
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the terminal can boot in any plant.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "shopterm"),
		Environment: getString("APP_ENV", "production"),
		Backend: BackendConfig{
			BaseURL:        getString("BACKEND_URL", "https://localhost:8080"),
			RequestTimeout: getDuration("BACKEND_REQUEST_TIMEOUT", 5*time.Second),
			BulkTimeout:    getDuration("BACKEND_BULK_TIMEOUT", 300*time.Second),
			SingleTimeout:  getDuration("BACKEND_SINGLE_TIMEOUT", 120*time.Second),
		},
		Print: PrintConfig{
			TempDir:       getString("PRINT_TEMP_DIR", os.TempDir()),
			LabelSizeMM:   getFloat("QR_LABEL_SIZE_MM", 38),
			LabelMarginMM: getFloat("QR_LABEL_MARGIN_MM", 5),
		},
		Runner: RunnerConfig{
			Workers:   getInt("RUNNER_WORKERS", 4),
			QueueSize: getInt("RUNNER_QUEUE_SIZE", 64),
		},
		Stations: StationsConfig{
			SawPair: [2]string{
				getString("SAW_POSITION_1", "Пила-1"),
				getString("SAW_POSITION_2", "Пила-2"),
			},
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 5*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// ManifestPath returns the temp-file location for a fetched manifest.
func (c *Config) ManifestPath(name string) string {
	return filepath.Join(c.Print.TempDir, name)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
