package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/havelock/pairbook/pkg/infra/postgres"
	redis_wrapper "github.com/havelock/pairbook/pkg/infra/redis"
	"github.com/havelock/pairbook/pkg/logging"
)

type MarketConfig struct {
	Symbol       string `yaml:"symbol"`
	Depth        int    `yaml:"depth"`
	TickSizeFile string `yaml:"tick_size_file"`
	PriceFloor   int64  `yaml:"price_floor"`
	PriceCeil    int64  `yaml:"price_ceil"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type NatsConfig struct {
	URL string `yaml:"url"`
}

// LedgerAccount seeds the in-memory ledger at boot.
type LedgerAccount struct {
	Account string `yaml:"account"`
	Asset   string `yaml:"asset"`
	Amount  string `yaml:"amount"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	Log         *logging.Config                  `yaml:"log"`
	Market      *MarketConfig                    `yaml:"market"`
	Fix         *FixConfig                       `yaml:"fix"`
	MarketDB    *postgres_wrapper.PostgresConfig `yaml:"market_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Nats        *NatsConfig                      `yaml:"nats"`
	MetricsAddr string                           `yaml:"metrics_addr"`
	Ledger      []LedgerAccount                  `yaml:"ledger"`
}

// Load reads config from file, falling back to CONFIG_FILE. Environment
// variables inside the file are expanded before parsing.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("file_path", filePath)
	sugar.Debug("loading config")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}

	return cfg, nil
}
