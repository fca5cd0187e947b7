// Package config は環境変数からサーバーの設定を読み込みます
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix は全変数名の接頭辞（例: MINESWEEPER_ADDR）
const Prefix = "MINESWEEPER_"

type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`

	// デフォルトのゲーム
	Rows    int `env:"ROWS" envDefault:"10"`
	Columns int `env:"COLUMNS" envDefault:"10"`
	Mines   int `env:"MINES" envDefault:"10"`

	MaxRows    int `env:"MAX_ROWS" envDefault:"50"`
	MaxColumns int `env:"MAX_COLUMNS" envDefault:"50"`

	UndoDepth     int           `env:"UNDO_DEPTH" envDefault:"16"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	// bot 用の重み（省略可）
	WeightsPath string `env:"WEIGHTS_PATH"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load は環境変数を読み込んで検証します
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxRows <= 0 || c.MaxColumns <= 0 {
		errs = append(errs, fmt.Errorf("max dimensions must be positive, got %dx%d", c.MaxRows, c.MaxColumns))
	}
	if c.Rows <= 0 || c.Columns <= 0 || c.Rows > c.MaxRows || c.Columns > c.MaxColumns {
		errs = append(errs, fmt.Errorf("default dimensions %dx%d out of range", c.Rows, c.Columns))
	}
	if c.Mines < 0 || c.Mines > c.Rows*c.Columns {
		errs = append(errs, fmt.Errorf("default mine count %d out of range", c.Mines))
	}
	if c.UndoDepth < 1 {
		errs = append(errs, fmt.Errorf("undo depth must be at least 1, got %d", c.UndoDepth))
	}
	if c.SessionTTL <= 0 || c.SweepInterval <= 0 {
		errs = append(errs, errors.New("session ttl and sweep interval must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
