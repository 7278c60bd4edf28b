package ckconf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// LoadOptions reads options from a YAML file on top of DefaultOptions.
// References such as ${VAR} or ${VAR:-fallback} are replaced using getenv
// before parsing. A relative data_dir is resolved against the file's directory.
func LoadOptions(path string, getenv func(string) string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options: %w", err)
	}

	opt := DefaultOptions()
	if err := yaml.Unmarshal(interpolateEnv(data, getenv), &opt); err != nil {
		return Options{}, fmt.Errorf("failed to parse options: %w", err)
	}

	if opt.DataDir != "" && !filepath.IsAbs(opt.DataDir) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return Options{}, fmt.Errorf("failed to resolve options path: %w", err)
		}
		opt.DataDir = filepath.Join(filepath.Dir(absPath), opt.DataDir)
	}

	if err := opt.Validate(); err != nil {
		return Options{}, fmt.Errorf("invalid options in %s: %w", path, err)
	}
	return opt, nil
}

// LoadYAML reads a settings tree from a YAML file. Scalars become strings.
func LoadYAML(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	tree, err := normalizeTree(raw, "")
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return tree, nil
}

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
