package config

// Application constants
const (
	AppName = "workshop-report"

	// EnvPrefix namespaces environment overrides, e.g. WORKSHOP_INPUT_DIR.
	EnvPrefix = "WORKSHOP"

	// File names (relative to executable)
	DefaultOutputFile = "workshop_results.xlsx"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "workshop-report.log"
	ConfigFileYAML    = "config.yaml"
	ConfigFileTOML    = "config.toml"

	// Workbook extensions picked up by discovery
	DefaultWorkbookExtension = ".xlsm"

	// Report policies
	DefaultAffirmativeToken = "SI"
	MissingAsZero           = "zero"
	MissingExcluded         = "exclude"
	FailureAbort            = "abort"
	FailureIsolate          = "isolate"

	// Column sizing
	DefaultColumnPadding  = 2
	DefaultMaxColumnWidth = 50
)
