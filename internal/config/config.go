package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// InstanceConfig holds the target instance and the credentials used against it.
type InstanceConfig struct {
	Name     string `toml:"name" yaml:"name"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
}

// AppConfig identifies the application and how its version is chosen.
type AppConfig struct {
	SysID           string `toml:"sys_id" yaml:"sys_id"`
	Scope           string `toml:"scope" yaml:"scope"`
	VersionFormat   string `toml:"version_format" yaml:"version_format"`
	VersionTemplate string `toml:"version_template" yaml:"version_template"`
	IncrementBy     int    `toml:"increment_by" yaml:"increment_by"`
	Workspace       string `toml:"workspace" yaml:"workspace"`
}

// File is the optional on-disk configuration. Step inputs override it.
type File struct {
	Instance InstanceConfig `toml:"instance" yaml:"instance"`
	App      AppConfig      `toml:"app" yaml:"app"`
}

// LoadFrom reads configuration from the given file path. Files ending in
// .yaml or .yml are decoded as YAML, anything else as TOML.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - NOW_USERNAME overrides instance.username
//   - NOW_PASSWORD overrides instance.password
//   - NOW_INSTANCE overrides instance.name
func LoadFrom(path string) (File, error) {
	var cfg File
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return File{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return File{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *File) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

// DefaultConfigPath returns the default path for the nowpublish config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return home + "/.config/nowpublish/config.toml"
}

func applyEnvOverrides(cfg *File) {
	if v := os.Getenv("NOW_USERNAME"); v != "" {
		cfg.Instance.Username = v
	}
	if v := os.Getenv("NOW_PASSWORD"); v != "" {
		cfg.Instance.Password = v
	}
	if v := os.Getenv("NOW_INSTANCE"); v != "" {
		cfg.Instance.Name = v
	}
}
