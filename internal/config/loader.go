package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name searched for on disk.
const FileName = "clawround.yaml"

// Load loads the configuration and validates it.
// Search order: customPath -> ~/.clawround/clawround.yaml -> ./configs/clawround.yaml -> embedded default.
// Fields missing from a document keep their built-in defaults.
func Load(customPath string) (File, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return File{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data, customPath)
		if err != nil {
			return File{}, err
		}
		return cfg, validated(cfg)
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data, userCfgPath); err == nil {
				return cfg, validated(cfg)
			}
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", FileName)
	if data, err := os.ReadFile(local); err == nil {
		if cfg, err := parse(data, local); err == nil {
			return cfg, validated(cfg)
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML, "embedded")
	if err != nil {
		cfg = Default() // Fallback to hardcoded if embed fails
		cfg.Source = "builtin"
	}
	return cfg, validated(cfg)
}

func parse(data []byte, source string) (File, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	cfg.Source = source
	return cfg, nil
}

func validated(cfg File) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfg.Source, err)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clawround", filename)
}

// Marshal renders the configuration as YAML.
func Marshal(cfg File) ([]byte, error) {
	return yaml.Marshal(cfg)
}
