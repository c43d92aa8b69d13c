package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Scores   ScoresConfig   `toml:"scores"`
	Schedule ScheduleConfig `toml:"schedule"`
}

type GeneralConfig struct {
	PicksPath   string `toml:"picks_path"`
	LedgerPath  string `toml:"ledger_path"`
	AuditDBPath string `toml:"audit_db_path"`
	LogLevel    string `toml:"log_level"`
}

type ScoresConfig struct {
	BaseURL              string   `toml:"base_url"`
	APIKey               string   `toml:"api_key"`
	DaysFrom             int      `toml:"days_from"`
	RequestTimeout       Duration `toml:"request_timeout"`
	MaxConcurrentFetches int      `toml:"max_concurrent_fetches"`
}

type ScheduleConfig struct {
	SettleInterval Duration `toml:"settle_interval"`
	ReportInterval Duration `toml:"report_interval"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Load reads the TOML config at path on top of the defaults. A missing file
// is not an error; the batch job can run from defaults plus the TOA_API_KEY
// environment variable.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv fills credentials that are usually kept out of the config file.
func applyEnv(cfg *Config) {
	if cfg.Scores.APIKey == "" {
		cfg.Scores.APIKey = os.Getenv("TOA_API_KEY")
	}
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			PicksPath:   "./data/picks.json",
			LedgerPath:  "./data/monthly-pl.json",
			AuditDBPath: "./data/pickledger.db",
			LogLevel:    "info",
		},
		Scores: ScoresConfig{
			BaseURL:              "https://api.the-odds-api.com",
			DaysFrom:             3,
			RequestTimeout:       Duration{10 * time.Second},
			MaxConcurrentFetches: 4,
		},
		Schedule: ScheduleConfig{
			SettleInterval: Duration{1 * time.Hour},
			ReportInterval: Duration{6 * time.Hour},
		},
	}
}
