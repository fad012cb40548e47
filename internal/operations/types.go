package operations

// Pipeline step identifiers
const (
	StepIDDiscovery  = "discovery"
	StepIDExtraction = "extraction"
	StepIDTransform  = "transform"
	StepIDOutput     = "output"
)

// Pipeline step names
const (
	StepNameDiscovery  = "Workbook Discovery"
	StepNameExtraction = "Workbook Extraction"
	StepNameTransform  = "Report Assembly"
	StepNameOutput     = "Report Output"
)

// Workbook read outcomes recorded on the workbooks_read counter
const (
	ReadStatusOK     = "ok"
	ReadStatusFailed = "failed"
)
