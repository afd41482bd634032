package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iliyamo/aerial-tour-booking/internal/config"
	"github.com/iliyamo/aerial-tour-booking/internal/database"
)

// Config keys.  Each maps to the upper-case environment variable the
// server reads, so one .env serves both.
const (
	keyDBDriver   = "db_driver"
	keyDBPath     = "db_path"
	keyDBUser     = "db_user"
	keyDBPass     = "db_pass"
	keyDBHost     = "db_host"
	keyDBPort     = "db_port"
	keyDBName     = "db_name"
	keyJWTSecret  = "auth_jwt_secret"
	keyLogLevel   = "log_level"
	keyDemoPath   = "demo_catalog_path"
	keyBcryptCost = "bcrypt_cost"
)

var cfg *viper.Viper

// loadConfig layers flags over environment over the optional config file
// over defaults.  A missing default config file is not an error.
func loadConfig(cmd *cobra.Command, file string) error {
	v := viper.New()
	v.SetDefault(keyDBDriver, "sqlite")
	v.SetDefault(keyDBPath, "aerial-tours.db")
	v.SetDefault(keyDBHost, "localhost")
	v.SetDefault(keyDBPort, "3306")
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyBcryptCost, 12)
	v.AutomaticEnv()

	for key, flag := range map[string]string{keyDBDriver: "db-driver", keyDBPath: "db-path"} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("tourctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	cfg = v
	return nil
}

// dbConfig builds the server's Config for the database keys only.
func dbConfig() config.Config {
	return config.Config{
		DBDriver: strings.ToLower(cfg.GetString(keyDBDriver)),
		DBPath:   cfg.GetString(keyDBPath),
		DBUser:   cfg.GetString(keyDBUser),
		DBPass:   cfg.GetString(keyDBPass),
		DBHost:   cfg.GetString(keyDBHost),
		DBPort:   cfg.GetString(keyDBPort),
		DBName:   cfg.GetString(keyDBName),
	}
}

func openDB() (*sql.DB, error) {
	c := dbConfig()
	db, err := database.Open(c.DBDriver, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.DBDriver, err)
	}
	return db, nil
}
