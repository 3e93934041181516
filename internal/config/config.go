// Package config loads runtime configuration: where the database lives,
// where to listen, and how often the reprocess sweep runs. Values come from
// a yaml file in the user's home directory or from BOLAO_* environment
// variables.
package config

import (
	"os"

	"github.com/google/logger"
	"github.com/spf13/viper"
)

// Init sets up viper defaults and bindings. Call once before the accessors.
func Init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".bolao")
	viper.AddConfigPath(home)
	viper.AutomaticEnv()
	viper.BindEnv("db_url", "BOLAO_DB_URL")
	viper.BindEnv("listen_address", "BOLAO_LISTEN_ADDRESS")
	viper.BindEnv("reprocess_cron", "BOLAO_REPROCESS_CRON")
	viper.SetDefault("db_url", "")
	viper.SetDefault("listen_address", ":8080")
	viper.SetDefault("reprocess_cron", "@hourly")
	if err := viper.ReadInConfig(); err != nil {
		// config file is optional; env vars and defaults still apply
		logger.Infof("no config file loaded: %v", err)
	}
}

// DBURL is the PostgreSQL connection string.
func DBURL() string {
	return viper.GetString("db_url")
}

// ListenAddress is the HTTP bind address.
func ListenAddress() string {
	return viper.GetString("listen_address")
}

// ReprocessCron is the cron spec for the periodic reprocess sweep.
func ReprocessCron() string {
	return viper.GetString("reprocess_cron")
}
