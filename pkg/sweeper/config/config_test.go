package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/sweeper/pkg/sweeper/internalerr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweeper.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
game:
  height: 16
  width: 30
  mines: 99
runner:
  games: 5
  seed: 1234
  max_moves: 500
store:
  path: /tmp/sweeper.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Game.Height != 16 || cfg.Game.Width != 30 || cfg.Game.Mines != 99 {
		t.Errorf("unexpected game config: %+v", cfg.Game)
	}
	if cfg.Runner.Games != 5 || cfg.Runner.Seed != 1234 || cfg.Runner.MaxMoves != 500 {
		t.Errorf("unexpected runner config: %+v", cfg.Runner)
	}
	if cfg.Store.Path != "/tmp/sweeper.db" {
		t.Errorf("unexpected store path %q", cfg.Store.Path)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
game:
  height: 4
  width: 4
  mines: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Runner.Games != 1 {
		t.Errorf("expected default 1 game, got %d", cfg.Runner.Games)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_RejectsImpossibleBoards(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero height", Config{Game: GameConfig{Height: 0, Width: 8, Mines: 1}}},
		{"negative mines", Config{Game: GameConfig{Height: 8, Width: 8, Mines: -1}}},
		{"too many mines", Config{Game: GameConfig{Height: 3, Width: 3, Mines: 10}}},
		{"negative games", Config{
			Game:   GameConfig{Height: 3, Width: 3, Mines: 1},
			Runner: RunnerConfig{Games: -1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}
