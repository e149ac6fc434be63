package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Price source selection: "csv" (default) or "sqlite".
	PriceSource string
	DataDir     string // root of <exchange>/<SYMBOL>.csv files
	HistoryDir  string // root of <exchange>/<SYMBOL>.db history databases

	// Trainer hyperparameter overrides. Zero means "use the default".
	TrainEpochs       int
	TrainGamma        float64
	TrainClip         float64
	TrainLearningRate float64
	TrainInnerUpdates int
	TrainSeed         int64

	// Optional warmup universes: "NASDAQ:AAPL,MSFT;NYSE:IBM".
	WarmupUniverses string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8000),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/allocator.db"),

		PriceSource: getEnv("PRICE_SOURCE", "csv"),
		DataDir:     getEnv("DATA_DIR", "./public"),
		HistoryDir:  getEnv("HISTORY_DIR", "./data/history"),

		TrainEpochs:       getEnvAsInt("TRAIN_EPOCHS", 0),
		TrainGamma:        getEnvAsFloat("TRAIN_GAMMA", 0),
		TrainClip:         getEnvAsFloat("TRAIN_CLIP", 0),
		TrainLearningRate: getEnvAsFloat("TRAIN_LR", 0),
		TrainInnerUpdates: getEnvAsInt("TRAIN_INNER_UPDATES", 0),
		TrainSeed:         int64(getEnvAsInt("TRAIN_SEED", 42)),

		WarmupUniverses: getEnv("WARMUP_UNIVERSES", ""),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	switch c.PriceSource {
	case "csv":
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the csv price source")
		}
	case "sqlite":
		if c.HistoryDir == "" {
			return fmt.Errorf("HISTORY_DIR is required for the sqlite price source")
		}
	default:
		return fmt.Errorf("unknown PRICE_SOURCE %q (want csv or sqlite)", c.PriceSource)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
