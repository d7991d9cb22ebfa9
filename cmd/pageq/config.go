package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinywasm/query"
	"github.com/tinywasm/query/sqlexec"
	"github.com/tinywasm/query/sqlplan"
)

// Config holds the connection settings, read from flags, PAGEQ_* environment
// variables and an optional config file, in that order of precedence.
type Config struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log-level"`
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetDefault("driver", "sqlite3")
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix("PAGEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("no dsn configured: set --dsn or PAGEQ_DSN")
	}
	return cfg, nil
}

func (cfg *Config) logger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger(), nil
}

func (cfg *Config) session(ctx context.Context) (*query.Session, zerolog.Logger, error) {
	logger, err := cfg.logger()
	if err != nil {
		return nil, logger, err
	}
	dialect, err := sqlplan.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, logger, err
	}
	exec, err := sqlexec.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, logger, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}
	logger.Debug().Str("driver", cfg.Driver).Stringer("dialect", dialect).Msg("connected")
	return query.NewSession(exec, sqlplan.New(dialect), query.WithLogger(logger)), logger, nil
}
