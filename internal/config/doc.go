// Package config provides centralized configuration for the workshop report tool.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command line flags (applied by cmd/workshop-report)
//	2. Environment variables (WORKSHOP_*)
//	3. Configuration file (config.yaml or config.toml)
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// Variables follow the section/field structure of Config:
//
//	WORKSHOP_INPUT_DIR=/srv/workshop
//	WORKSHOP_INPUT_EXTENSIONS=.xlsm,.xlsx
//	WORKSHOP_OUTPUT_PATH=results.xlsx
//	WORKSHOP_REPORT_FAILURE_POLICY=isolate
//	WORKSHOP_LOGGING_LEVEL=debug
//
// # Layout
//
// The position of every field inside a participant workbook is described by
// Layout. DefaultLayout matches the workshop data sheet; a config file can
// replace it:
//
//	layout:
//	  sheet: Datos
//	  identity_cell: C7
//	  tasks:
//	    - {number: 1, label: "T1 - Ver pagos", row: 17}
//
// # Path Management
//
// Paths resolves every default location relative to the executable, never
// the working directory:
//
//	paths, err := config.GetPaths()
//	cfg.ResolvePaths(paths)
package config
