package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port   string `env:"PORT" envDefault:"8080"`
		DBPath string `env:"DB_PATH" envDefault:"precinctpulse.db"`
	}

	// Analysis configuration
	Analysis struct {
		// Directory holding the snapshot workbooks, one folder per
		// precinct
		DataDir string `env:"DATA_DIR" envDefault:"data"`

		// Directory the CSV/JSON/xlsx artifacts are written to
		OutputDir string `env:"OUTPUT_DIR" envDefault:"analysis"`

		// Interval between scheduled re-analysis runs (in minutes)
		RunInterval int `env:"ANALYSIS_INTERVAL" envDefault:"60"`

		// Verbose enables the per-precinct distribution log lines
		Verbose bool `env:"ANALYSIS_VERBOSE" envDefault:"false"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Buffer size of the detail queue (in batches)
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Telegram bargain alerts, disabled unless both values are set
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}

	// Bottom-up assumption overrides; zero values fall back to the
	// estimator defaults
	Construction struct {
		PlotSizeSqYd    float64 `env:"PLOT_SIZE_SQ_YD"`
		Floors          int     `env:"FLOORS"`
		CoverageRatio   float64 `env:"COVERAGE_RATIO"`
		CostPerSqFtLow  float64 `env:"COST_PER_SQ_FT_LOW"`
		CostPerSqFtHigh float64 `env:"COST_PER_SQ_FT_HIGH"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
