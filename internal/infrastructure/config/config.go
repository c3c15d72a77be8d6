package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "tixport/internal/shared/config"
)

type Config struct {
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	SFTP      sharedConfig.SFTPConfig      `mapstructure:"sftp"`
	Jira      sharedConfig.JiraConfig      `mapstructure:"jira"`
	Migration sharedConfig.MigrationConfig `mapstructure:"migration"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// An explicit path wins over the default search locations.
func Load(path string) (*Config, error) {
	if path != "" {
		dir, name := filepath.Split(path)
		if dir == "" {
			dir = "."
		}
		viper.SetConfigName(strings.TrimSuffix(name, filepath.Ext(name)))
		viper.AddConfigPath(dir)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TIXPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.host", "127.0.0.1")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "supportpal")
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// SFTP defaults
	viper.SetDefault("sftp.port", 22)
	viper.SetDefault("sftp.remote_base_path", "/var/www/supportpal/storage/app/attachments")
	viper.SetDefault("sftp.timeout_seconds", 30)

	// Jira defaults
	viper.SetDefault("jira.issue_type", "Task")
	viper.SetDefault("jira.timeout_seconds", 30)

	// Migration defaults
	viper.SetDefault("migration.default_priority", "Medium")
	viper.SetDefault("migration.label_prefix", "supportpal")
	viper.SetDefault("migration.upload_workers", 5)
	viper.SetDefault("migration.scratch_dir", "./attachments")
	viper.SetDefault("migration.display_timezone", "America/New_York")
	viper.SetDefault("migration.max_description_len", 32767)
}
