package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sweeper/pkg/sweeper/internalerr"
)

// Config holds everything the sweeper runner needs: board geometry, how
// many games to play, and where to archive results.
type Config struct {
	Game   GameConfig   `yaml:"game"`
	Runner RunnerConfig `yaml:"runner"`
	Store  StoreConfig  `yaml:"store"`
}

// GameConfig describes the board.
type GameConfig struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
	Mines  int `yaml:"mines"`
}

// RunnerConfig controls game execution.
type RunnerConfig struct {
	Games    int   `yaml:"games"`
	Seed     int64 `yaml:"seed"`
	MaxMoves int   `yaml:"max_moves"`
}

// StoreConfig points at the game archive.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns the standard 8x8 board with 8 mines, one game, and no
// archive path.
func Default() *Config {
	return &Config{
		Game:   GameConfig{Height: 8, Width: 8, Mines: 8},
		Runner: RunnerConfig{Games: 1},
	}
}

// Load reads a YAML config file. Fields left out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the board described is playable.
func (c *Config) Validate() error {
	if c.Game.Height <= 0 || c.Game.Width <= 0 {
		return fmt.Errorf("board dimensions %dx%d: %w",
			c.Game.Height, c.Game.Width, internalerr.ErrInvalidConfig)
	}
	if c.Game.Mines < 0 || c.Game.Mines > c.Game.Height*c.Game.Width {
		return fmt.Errorf("%d mines on a %dx%d board: %w",
			c.Game.Mines, c.Game.Height, c.Game.Width, internalerr.ErrInvalidConfig)
	}
	if c.Runner.Games < 0 {
		return fmt.Errorf("negative game count %d: %w",
			c.Runner.Games, internalerr.ErrInvalidConfig)
	}
	if c.Runner.MaxMoves < 0 {
		return fmt.Errorf("negative move cap %d: %w",
			c.Runner.MaxMoves, internalerr.ErrInvalidConfig)
	}
	return nil
}
