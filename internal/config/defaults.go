package config

const (
	defaultStacksDir          = "."
	defaultStateDir           = "~/.local/share/camflow"
	defaultLogDir             = "~/.local/share/camflow/logs"
	defaultStackName          = "SOMESTACK"
	defaultModel              = "Q"
	defaultInitialCell        = "C1"
	defaultReportLastEditedBy = 7
	defaultReportID           = 51
	defaultReportStatus       = "OK"
	defaultPollIntervalMillis = 500
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StacksDir: defaultStacksDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Stack: Stack{
			DefaultName: defaultStackName,
			Model:       defaultModel,
			InitialCell: defaultInitialCell,
		},
		Report: Report{
			LastEditedBy: defaultReportLastEditedBy,
			ReportID:     defaultReportID,
			Status:       defaultReportStatus,
		},
		Watch: Watch{
			PollIntervalMillis: defaultPollIntervalMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
