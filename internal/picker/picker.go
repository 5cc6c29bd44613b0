// Package picker defines the interactive selection abstraction the
// resolution pipeline is written against. The terminal implementation
// lives in internal/ui; tests substitute the scripted fake from
// picker/testing so pipelines run headlessly.
package picker

import "strings"

// Row is one selectable record. Key is a stable identifier the caller
// joins on (an instance ID, a task ARN); it is never displayed. Columns
// are what the operator sees and filters against.
type Row struct {
	Key     string
	Columns []string
}

// Display renders the visible columns for a single-line presentation.
func (r Row) Display() string {
	return strings.Join(r.Columns, "  ")
}

// FilterText returns the text incremental filtering matches against.
func (r Row) FilterText() string {
	return strings.Join(r.Columns, " ")
}

// Options configures a selection menu.
type Options struct {
	// Prompt is the menu's label, e.g. "Select a role".
	Prompt string
	// Header is an optional static column-label line shown above the rows.
	Header string
}

// Selector presents rows and blocks until the operator confirms one or
// cancels. ok is false when the operator cancelled or rows was empty;
// callers must treat that as pipeline termination, never as a selection
// of the zero Row.
type Selector interface {
	Pick(rows []Row, opts Options) (selected Row, ok bool, err error)
}
