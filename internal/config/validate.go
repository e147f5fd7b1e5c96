package config

import (
	"errors"
	"fmt"
	"strings"

	"camflow/internal/grid"
)

const minPollIntervalMillis = 50

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStack(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStack() error {
	if !pathSafe(c.Stack.DefaultName) {
		return fmt.Errorf("stack.default_name %q must not contain path separators", c.Stack.DefaultName)
	}
	if !pathSafe(c.Stack.Model) {
		return fmt.Errorf("stack.model %q must not contain path separators", c.Stack.Model)
	}
	if _, err := grid.Parse(c.Stack.InitialCell); err != nil {
		return fmt.Errorf("stack.initial_cell: %w", err)
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.LastEditedBy < 0 {
		return errors.New("report.last_edited_by must be non-negative")
	}
	if c.Report.ReportID < 0 {
		return errors.New("report.report_id must be non-negative")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.PollIntervalMillis < minPollIntervalMillis {
		return fmt.Errorf("watch.poll_interval_ms must be at least %d", minPollIntervalMillis)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func pathSafe(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
