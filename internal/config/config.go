package config

import (
	"os"
	"time"

	"chipstack-server/internal/util"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// store types
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config provides configuration for the chip tracking server
type Config struct {
	loaded         bool
	ListenAddr     string `yaml:"listenAddr" envconfig:"listen_addr"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Store          string `yaml:"store" envconfig:"store"`
	TableCacheSize int    `yaml:"tableCacheSize" envconfig:"table_cache_size"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	WinnerSelection struct {
		AutoApprovalDelay time.Duration `yaml:"autoApprovalDelay" envconfig:"auto_approval_delay"`
		ApprovalTimeout   time.Duration `yaml:"approvalTimeout" envconfig:"approval_timeout"`
	} `yaml:"winnerSelection" envconfig:"winner_selection"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cfg := Config{
		ListenAddr:     ":5000",
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Store:          StoreMemory,
		TableCacheSize: 128,
	}

	cfg.JWT.PublicKey = ".keys/public.pem"
	cfg.JWT.PrivateKey = ".keys/private.key"
	cfg.Log.Level = "info"
	cfg.WinnerSelection.AutoApprovalDelay = time.Second * 5
	cfg.WinnerSelection.ApprovalTimeout = time.Second * 30

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The YAML file is optional, environment variables win over the file
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("CHIPSTACK_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("chipstack", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
