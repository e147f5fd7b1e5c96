package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStack()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CAMFLOW_STACKS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StacksDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StacksDir) == "" {
		c.Paths.StacksDir = defaultStacksDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.StacksDir, err = expandPath(c.Paths.StacksDir); err != nil {
		return fmt.Errorf("paths.stacks_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStack() {
	c.Stack.DefaultName = strings.TrimSpace(c.Stack.DefaultName)
	if c.Stack.DefaultName == "" {
		c.Stack.DefaultName = defaultStackName
	}
	c.Stack.Model = strings.TrimSpace(c.Stack.Model)
	if c.Stack.Model == "" {
		c.Stack.Model = defaultModel
	}
	c.Stack.InitialCell = strings.ToUpper(strings.TrimSpace(c.Stack.InitialCell))
	if c.Stack.InitialCell == "" {
		c.Stack.InitialCell = defaultInitialCell
	}
}

func (c *Config) normalizeReport() {
	c.Report.Status = strings.TrimSpace(c.Report.Status)
	if c.Report.Status == "" {
		c.Report.Status = defaultReportStatus
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
