package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "nodeedit"
	configFile = "config.yaml"
	logFile    = "nodeedit.log"

	// ConfigDirEnvVar overrides the configuration directory.
	ConfigDirEnvVar = "NODEEDIT_CONFIG_DIR"

	registryVersion = 1
)

var (
	registry     *Registry
	registryOnce sync.Once
	registryErr  error

	// Serializes writers within the process
	saveMu sync.Mutex
)

// GetConfigDir returns the directory holding the config and log files.
// NODEEDIT_CONFIG_DIR wins; otherwise:
//   - Linux: $XDG_CONFIG_HOME/nodeedit or $HOME/.config/nodeedit
//   - macOS: $HOME/.config/nodeedit
//   - Windows: %APPDATA%\nodeedit
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir, nil
	}

	if runtime.GOOS == "windows" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
		return filepath.Join(base, appName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && runtime.GOOS != "darwin" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the path of config.yaml.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// GetLogPath returns the default log file, next to the config file.
func GetLogPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFile), nil
}

// LoadRegistry loads the registry from the default location once per
// process. A missing file yields a default registry.
func LoadRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			registryErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		registry, registryErr = LoadRegistryFrom(path)
	})
	return registry, registryErr
}

// LoadRegistryFrom reads a registry from configPath. Unknown keys are
// rejected so a stored password or a misspelt setting is reported instead of
// silently ignored.
func LoadRegistryFrom(configPath string) (*Registry, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var reg Registry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&reg); errors.Is(err, io.EOF) {
		return NewRegistry(), nil
	} else if err != nil {
		if strings.Contains(err.Error(), "password") {
			return nil, fmt.Errorf("%s: passwords must not be stored in the config file (use %s)", configPath, PasswordEnvVar)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if reg.Version != registryVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", reg.Version, registryVersion)
	}
	if reg.Profiles == nil {
		reg.Profiles = make(map[string]*Profile)
	}
	if reg.Preferences == nil {
		reg.Preferences = defaultPreferences()
	}
	for name, p := range reg.Profiles {
		if p == nil {
			return nil, fmt.Errorf("profile %s is empty", name)
		}
	}
	return &reg, nil
}

// Save writes the registry to the default location.
func (r *Registry) Save() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return r.SaveTo(filepath.Join(dir, configFile))
}

// SaveTo writes the registry to configPath through a temporary file and a
// rename, so readers never see a partial file.
func (r *Registry) SaveTo(configPath string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `# nodeedit configuration file
# Connection profiles and preferences.
#
# Security Note: database passwords are NEVER stored in this file.
# Set %s or enter the password when prompted.
#
# Location: %s

`, PasswordEnvVar, configPath)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
