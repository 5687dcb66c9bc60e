package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dataprobe/dataprobe/internal/storage"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// CLIConfig is the persisted CLI configuration: engine defaults plus the
// history backend selection. Flags override whatever is loaded here.
type CLIConfig struct {
	DefaultFormat string        `mapstructure:"default_format"`
	DefaultOutput string        `mapstructure:"default_output"`
	MaxIssues     int           `mapstructure:"max_issues"`
	Engine        models.Config `mapstructure:"engine"`
	History       HistoryConfig `mapstructure:"history"`
	Preferences   Preferences   `mapstructure:"preferences"`
}

// HistoryConfig selects the history backend and its window.
type HistoryConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Window  int            `mapstructure:"window"`
	Storage storage.Config `mapstructure:"storage"`
}

type Preferences struct {
	ColorOutput bool `mapstructure:"color_output"`
}

// LoadConfig reads the CLI configuration from the given file, or from
// $HOME/.dataprobe/config.yaml when none is given. Environment variables
// with the DATAPROBE_ prefix override file values.
func LoadConfig(cfgFile string) (*CLIConfig, error) {
	config := &CLIConfig{
		DefaultFormat: "text",
		DefaultOutput: "-",
		MaxIssues:     25,
		Engine:        *models.DefaultConfig(),
		History: HistoryConfig{
			Window: constants.DefaultHistoryWindow,
		},
		Preferences: Preferences{ColorOutput: true},
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		viper.AddConfigPath(filepath.Join(home, ".dataprobe"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DATAPROBE")
	viper.AutomaticEnv()

	viper.SetDefault("default_format", config.DefaultFormat)
	viper.SetDefault("default_output", config.DefaultOutput)
	viper.SetDefault("max_issues", config.MaxIssues)
	viper.SetDefault("history.window", config.History.Window)
	viper.SetDefault("history.storage.backend", constants.HistoryBackendFile)
	viper.SetDefault("preferences.color_output", config.Preferences.ColorOutput)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.History.Storage.File.BasePath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			config.History.Storage.File.BasePath = filepath.Join(home, ".dataprobe", "history")
		}
	}

	return config, nil
}
