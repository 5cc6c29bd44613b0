package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Check passed / action completed
	SymbolFail    = "✗" // Check or action failed
	SymbolWarn    = "!" // Non-fatal problem
)
