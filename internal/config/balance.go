package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tycoon/internal/game"
)

//go:embed defaults/balance.yaml
var defaultBalanceYAML []byte

// LoadBalance loads the gameplay tunables. Keys missing from a file keep
// their defaults, so partial balance files work.
// Search order: customPath -> ~/.tycoon/configs/balance.yaml -> ./configs/balance.yaml -> embedded default
func LoadBalance(customPath string) (game.Balance, error) {
	b := game.DefaultBalance()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return b, fmt.Errorf("failed to read balance file %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &b); err != nil {
			return b, fmt.Errorf("failed to parse balance file %s: %w", customPath, err)
		}
		return b, nil
	}

	// Try user config directory
	if userPath := userBalancePath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &b); err == nil {
				return b, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "balance.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &b); err == nil {
			return b, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBalanceYAML, &b); err != nil {
		return game.DefaultBalance(), nil
	}
	return b, nil
}

// userBalancePath returns the user balance file path, or empty if home is
// unavailable.
func userBalancePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tycoon", "configs", "balance.yaml")
}
