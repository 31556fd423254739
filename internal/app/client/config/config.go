package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".notas"
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	ServerAddress string `mapstructure:"server_address"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	TokenPath     string `mapstructure:"token_path"`
	DBPath        string `mapstructure:"db_path"`
	SyncStatePath string `mapstructure:"sync_state_path"`
	SyncInterval  int    `mapstructure:"sync_interval_seconds"`
	EnableTLS     bool   `mapstructure:"enable_tls"`

	// Pre-deadline reminder generation for tasks with a due date.
	PreReminderCount    int `mapstructure:"pre_reminder_count"`
	PreReminderInterval int `mapstructure:"pre_reminder_interval"`
}

// MustLoad reads the client configuration from the environment, with an
// optional .env file on top. Panics on invalid configuration.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("ENABLE_TLS", false)
	viper.SetDefault("PRE_REMINDER_COUNT", 3)
	viper.SetDefault("PRE_REMINDER_INTERVAL", 10)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	config := &Config{
		Env:                 viper.GetString("APP_ENV"),
		ServerAddress:       viper.GetString("SERVER_ADDRESS"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		ConfigDir:           configDir,
		TokenPath:           filepath.Join(configDir, "token"),
		DBPath:              filepath.Join(configDir, "notas.db"),
		SyncStatePath:       filepath.Join(configDir, "sync_state.json"),
		SyncInterval:        viper.GetInt("SYNC_INTERVAL_SECONDS"),
		EnableTLS:           viper.GetBool("ENABLE_TLS"),
		PreReminderCount:    viper.GetInt("PRE_REMINDER_COUNT"),
		PreReminderInterval: viper.GetInt("PRE_REMINDER_INTERVAL"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds must be positive")
	}
	if c.PreReminderCount < 0 || c.PreReminderInterval <= 0 {
		return fmt.Errorf("pre-reminder settings out of range")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
