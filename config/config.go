// Package config は環境変数から設定を読み込みます。
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/Jake-Purton/wasm-tt/game"
)

// Config はサーバーとデータ生成の共通設定です
type Config struct {
	Addr        string `env:"MINESWEEPER_ADDR"         envDefault:"0.0.0.0:8080"`
	StaticDir   string `env:"MINESWEEPER_STATIC_DIR"   envDefault:"static"`
	LogLevel    string `env:"MINESWEEPER_LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"MINESWEEPER_LOG_FORMAT"   envDefault:"text"`
	WeightsPath string `env:"MINESWEEPER_WEIGHTS_PATH"`

	Board BoardConfig
}

// DefaultMaxSide はクライアントが指定できる盤面の一辺の既定上限です
const DefaultMaxSide = 256

// BoardConfig は新しいゲームの既定サイズと、受け付けるサイズの上限です
type BoardConfig struct {
	Width     int `env:"MINESWEEPER_BOARD_WIDTH"      envDefault:"16"`
	Height    int `env:"MINESWEEPER_BOARD_HEIGHT"     envDefault:"16"`
	Mines     int `env:"MINESWEEPER_BOARD_MINES"      envDefault:"40"`
	MaxWidth  int `env:"MINESWEEPER_BOARD_MAX_WIDTH"  envDefault:"256"`
	MaxHeight int `env:"MINESWEEPER_BOARD_MAX_HEIGHT" envDefault:"256"`
}

// Load は環境変数を読み込み、盤面設定を検証します
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Board.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (b BoardConfig) Validate() error {
	if b.MaxWidth <= 0 || b.MaxHeight <= 0 {
		return fmt.Errorf("board config: max size %dx%d: %w", b.MaxWidth, b.MaxHeight, game.ErrInvalidConfiguration)
	}
	if err := b.CheckSize(b.Width, b.Height); err != nil {
		return fmt.Errorf("board config: %w", err)
	}
	if err := game.ValidateConfig(b.Width, b.Height, b.Mines); err != nil {
		return fmt.Errorf("board config: %w", err)
	}
	return nil
}

// CheckSize はクライアントから来たサイズが上限内かを確認します
func (b BoardConfig) CheckSize(width, height int) error {
	if width > b.MaxWidth || height > b.MaxHeight {
		return fmt.Errorf("size %dx%d exceeds %dx%d: %w", width, height, b.MaxWidth, b.MaxHeight, game.ErrInvalidConfiguration)
	}
	return nil
}
