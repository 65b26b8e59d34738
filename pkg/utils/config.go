package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Hold         HoldConfig
	Reaper       ReaperConfig
	Collaborator CollaboratorConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// HoldConfig bounds how long a buyer can keep a seat off the market.
type HoldConfig struct {
	DefaultSeconds int
	MaxSeconds     int
}

type ReaperConfig struct {
	IntervalSeconds int
	BatchSize       int
}

// CollaboratorConfig guards the endpoints reserved for the payment
// collaborator and ops tooling (confirm, cleanup, event setup).
type CollaboratorConfig struct {
	APIKey string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("HOLD_DEFAULT_SECONDS", 600)
	viper.SetDefault("HOLD_MAX_SECONDS", 1800)
	viper.SetDefault("REAPER_INTERVAL_SECONDS", 10)
	viper.SetDefault("REAPER_BATCH_SIZE", 500)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Hold: HoldConfig{
			DefaultSeconds: viper.GetInt("HOLD_DEFAULT_SECONDS"),
			MaxSeconds:     viper.GetInt("HOLD_MAX_SECONDS"),
		},
		Reaper: ReaperConfig{
			IntervalSeconds: viper.GetInt("REAPER_INTERVAL_SECONDS"),
			BatchSize:       viper.GetInt("REAPER_BATCH_SIZE"),
		},
		Collaborator: CollaboratorConfig{
			APIKey: viper.GetString("COLLABORATOR_API_KEY"),
		},
	}

	return config, nil
}
