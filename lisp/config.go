package lisp

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxDepth   = 10000
	DefaultConfigFile = ".charme.yaml"
)

// Config holds the settings shared by the REPL and the file runner.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	MaxDepth           int    `yaml:"max_depth"`
	Color              bool   `yaml:"color"`
	KeepGoing          bool   `yaml:"keep_going"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:             "charme> ",
		ContinuationPrompt: "   ... ",
		HistoryFile:        "~/.charme_history",
		MaxDepth:           DefaultMaxDepth,
		Color:              true,
	}
}

// LoadConfig reads path over the defaults. An empty path means
// ~/.charme.yaml, which is allowed to be missing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = "~/" + DefaultConfigFile
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	file, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	if cfg.MaxDepth <= 0 {
		return cfg, errors.Errorf("config: max_depth must be positive, got %d", cfg.MaxDepth)
	}
	return cfg, nil
}

// expands a leading ~ to the home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolve home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
