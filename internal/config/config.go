package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"camflow/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StacksDir string `toml:"stacks_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Stack contains defaults applied when a stack is opened.
type Stack struct {
	DefaultName string `toml:"default_name"`
	Model       string `toml:"model"`
	InitialCell string `toml:"initial_cell"`
}

// Report contains the fixed metadata attached to every report payload.
type Report struct {
	LastEditedBy int    `toml:"last_edited_by"`
	ReportID     int    `toml:"report_id"`
	Status       string `toml:"status"`
}

// Watch contains configuration for the polling refresh loop.
type Watch struct {
	PollIntervalMillis int `toml:"poll_interval_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for camflow.
//
// Configuration sections by subsystem:
//   - Paths: where stacks, lock files, and logs live
//   - Stack: default stack name, model tag, and initially selected cell
//   - Report: submitter and report identifiers for payloads
//   - Watch: refresh cadence of the watch loop
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Stack   Stack   `toml:"stack"`
	Report  Report  `toml:"report"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
}

// ConfigEnv names an environment variable that points at the configuration
// file when --config is not given.
const ConfigEnv = "CAMFLOW_CONFIG"

const (
	defaultConfigLocation = "~/.config/camflow/config.toml"
	projectConfigName     = "camflow.toml"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigLocation)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Unknown keys are
// rejected so a misspelled setting does not silently fall back to its
// default.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath picks the configuration file: an explicit path, then
// $CAMFLOW_CONFIG, then ~/.config/camflow/config.toml, then camflow.toml in
// the working directory. An explicit or environment path is used even when
// the file does not exist, so defaults apply and config init knows where to
// write.
func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(ConfigEnv))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		if err != nil {
			return "", false, err
		}
		return expanded, exists, nil
	}

	defaultPath, err := expandPath(defaultConfigLocation)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		exists, err := isFile(candidate)
		if err != nil {
			return "", false, err
		}
		if exists {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, fmt.Errorf("config path %s is a directory", path)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat config: %w", err)
	}
}

// EnsureDirectories creates the directories camflow writes bookkeeping into.
// The stacks directory is left alone; stacks create their own folders on
// first write.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PollInterval returns the watch loop tick interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Watch.PollIntervalMillis) * time.Millisecond
}

// WatchLockPath returns the lock file guarding the watch loop of a stack.
func (c *Config) WatchLockPath(stackName string) string {
	return filepath.Join(c.Paths.StateDir, "locks", "watch-"+stackName+".lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
