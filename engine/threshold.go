package engine

import "github.com/ftahirops/gputemp/model"

// DefaultWarnThreshold is the temperature in degrees Celsius above which
// a reading is shown with the warning style.
const DefaultWarnThreshold = 70.0

// Classify returns SeverityWarning when temp is strictly greater than
// threshold. A reading exactly at the threshold is OK.
func Classify(temp, threshold float64) model.Severity {
	if temp > threshold {
		return model.SeverityWarning
	}
	return model.SeverityOK
}
