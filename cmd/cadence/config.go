package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyFile          = "file"
	cfgKeyBackupCorrupt = "backup_corrupt"
	cfgKeyDebounce      = "debounce"
)

// config mirrors config.yaml:
//
//	file: /home/me/music/profiles.xml
//	backup_corrupt: true
//	debounce: 100ms
type config struct {
	File          string
	BackupCorrupt bool
	Debounce      time.Duration
}

// loadConfig reads config.yaml from configDir using Viper.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackupCorrupt, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return config{
		File:          v.GetString(cfgKeyFile),
		BackupCorrupt: v.GetBool(cfgKeyBackupCorrupt),
		Debounce:      v.GetDuration(cfgKeyDebounce),
	}, nil
}
