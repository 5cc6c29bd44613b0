// Package doctor runs the eager environment diagnostics behind
// 'hop doctor': client binaries, AWS credentials, cache directory, and
// the operator's ssh setup.
package doctor

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Run executes the check and returns the result.
	Run() CheckResult
}

// StaticCheck reports a precomputed result. Used for failures detected
// while assembling the check list, so they still show up in the report
// instead of silently dropping the check.
type StaticCheck struct {
	Result CheckResult
}

func (c *StaticCheck) Name() string { return c.Result.Name }

func (c *StaticCheck) Run() CheckResult { return c.Result }

// RunAll executes all checks sequentially and returns the results.
func RunAll(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		results[i] = check.Run()
	}
	return results
}

// AnyFailed reports whether any result failed outright. Warnings don't
// count; hop stays usable without mssh or an ssh config.
func AnyFailed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
