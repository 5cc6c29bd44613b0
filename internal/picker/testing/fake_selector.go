// Package testing provides a scripted Selector for headless pipeline tests.
package testing

import (
	"fmt"
	"sync"

	"github.com/rileyhilliard/hop/internal/picker"
)

// PickCall records one Pick invocation for assertions.
type PickCall struct {
	Rows []picker.Row
	Opts picker.Options
}

// FakeSelector is a picker.Selector driven by a per-prompt script.
// Configure responses with Choose/ChooseIndex/Cancel keyed on the prompt
// text; unscripted prompts select the first row.
type FakeSelector struct {
	mu        sync.Mutex
	byKey     map[string]string
	byIndex   map[string]int
	cancelled map[string]bool

	// Calls records every Pick invocation in order.
	Calls []PickCall
}

// NewFakeSelector creates an empty scripted selector.
func NewFakeSelector() *FakeSelector {
	return &FakeSelector{
		byKey:     make(map[string]string),
		byIndex:   make(map[string]int),
		cancelled: make(map[string]bool),
	}
}

// Choose scripts the row key to select when a prompt appears.
func (s *FakeSelector) Choose(prompt, key string) *FakeSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[prompt] = key
	return s
}

// ChooseIndex scripts a positional selection for a prompt.
func (s *FakeSelector) ChooseIndex(prompt string, index int) *FakeSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byIndex[prompt] = index
	return s
}

// Cancel scripts operator cancellation for a prompt.
func (s *FakeSelector) Cancel(prompt string) *FakeSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled[prompt] = true
	return s
}

// Pick implements picker.Selector.
func (s *FakeSelector) Pick(rows []picker.Row, opts picker.Options) (picker.Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, PickCall{Rows: rows, Opts: opts})

	// Empty input yields no selection, exactly like the real menu.
	if len(rows) == 0 || s.cancelled[opts.Prompt] {
		return picker.Row{}, false, nil
	}

	if key, ok := s.byKey[opts.Prompt]; ok {
		for _, row := range rows {
			if row.Key == key {
				return row, true, nil
			}
		}
		return picker.Row{}, false, fmt.Errorf("scripted key %q not present for prompt %q", key, opts.Prompt)
	}

	if idx, ok := s.byIndex[opts.Prompt]; ok {
		if idx < 0 || idx >= len(rows) {
			return picker.Row{}, false, fmt.Errorf("scripted index %d out of range for prompt %q", idx, opts.Prompt)
		}
		return rows[idx], true, nil
	}

	return rows[0], true, nil
}

// Prompts returns the prompt labels seen so far, in order.
func (s *FakeSelector) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts := make([]string, len(s.Calls))
	for i, call := range s.Calls {
		prompts[i] = call.Opts.Prompt
	}
	return prompts
}
