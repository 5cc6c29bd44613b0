// Package resolve implements the interactive multi-stage resolution
// pipeline: provider queries, disambiguation menus, and joins that narrow
// "all running compute in an environment" down to one network endpoint
// and login identity.
//
// Every stage returns (result, ok, error). ok=false means the operator
// cancelled or a query came back empty; callers end the run quietly with
// nothing dispatched. Errors are real failures and stop the run loudly.
package resolve

import (
	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/dispatch"
	"github.com/rileyhilliard/hop/internal/logger"
	"github.com/rileyhilliard/hop/internal/picker"
	"github.com/rileyhilliard/hop/internal/rolecache"
)

// Menu prompts, one per stage.
const (
	PromptRole     = "Select a role"
	PromptInstance = "Select an instance"
	PromptCluster  = "Select a cluster"
	PromptService  = "Select a service"
	PromptTask     = "Select a task"
)

// Target is the dispatcher's endpoint type; the pipeline's whole job is
// to produce one.
type Target = dispatch.Target

// Session carries everything one pipeline run needs. State is threaded
// through explicitly; stages share nothing ambient.
type Session struct {
	Env      string
	EC2      aws.EC2API
	ECS      aws.ECSAPI
	Selector picker.Selector
	Cache    *rolecache.Cache
	Log      logger.Logger

	// Spin wraps a provider query with progress feedback. Nil runs the
	// query bare, which is what tests want.
	Spin func(label string, fn func() error) error
}

func (s *Session) spin(label string, fn func() error) error {
	if s.Spin == nil {
		return fn()
	}
	return s.Spin(label, fn)
}

func (s *Session) log() logger.Logger {
	if s.Log == nil {
		return logger.Noop()
	}
	return s.Log
}

// pick runs the selector and normalizes the cancelled case.
func (s *Session) pick(rows []picker.Row, opts picker.Options) (picker.Row, bool, error) {
	row, ok, err := s.Selector.Pick(rows, opts)
	if err != nil {
		return picker.Row{}, false, err
	}
	if !ok {
		s.log().Debug("%s: nothing selected, ending pipeline", opts.Prompt)
	}
	return row, ok, nil
}
