package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"camflow/internal/config"
	"camflow/internal/flowcell"
	"camflow/internal/logging"
	"camflow/internal/stack"
)

type commandContext struct {
	configFlag *string
	stackFlag  *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, stackFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		stackFlag:  stackFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// loggerValue returns the configured logger, falling back to a no-op logger
// when logging cannot be set up.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) stackName() string {
	if c.stackFlag != nil {
		if name := strings.TrimSpace(*c.stackFlag); name != "" {
			return name
		}
	}
	if c.config != nil {
		return c.config.Stack.DefaultName
	}
	return ""
}

func (c *commandContext) openStack() (*stack.Stack, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return stack.New(cfg.Paths.StacksDir, c.stackName(), stack.Options{
		Model:  cfg.Stack.Model,
		Logger: c.loggerValue(),
	})
}

// openCell loads the cell at coord from disk. Unusable saved state is an
// error unless allowCorrupt is set, so commands that save do not silently
// overwrite files a person may want to inspect.
func (c *commandContext) openCell(cmd *cobra.Command, coord string, allowCorrupt bool) (*flowcell.FlowCell, error) {
	s, err := c.openStack()
	if err != nil {
		return nil, err
	}
	cell, err := s.CellAt(coord)
	if err != nil {
		return nil, err
	}
	res := cell.Load()
	if res.Outcome == flowcell.LoadCorrupt {
		if !allowCorrupt {
			return nil, fmt.Errorf("saved state of %s is unusable: %w", cell.Label(), res.Err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: ignoring unusable saved state of %s: %v\n", cell.Label(), res.Err)
	}
	return cell, nil
}

func (c *commandContext) reportMeta() flowcell.ReportMeta {
	cfg := c.config
	if cfg == nil {
		return flowcell.DefaultReportMeta()
	}
	return flowcell.ReportMeta{
		LastEditedBy: cfg.Report.LastEditedBy,
		ReportID:     cfg.Report.ReportID,
		Status:       cfg.Report.Status,
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
