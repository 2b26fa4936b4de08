// Package pipeline runs named steps in order over a shared state value.
package pipeline

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Step represents a discrete unit of work executed within a pipeline.
// Implementations mutate the provided state and return an error when the
// pipeline should halt.
type Step[C any] interface {
	Name() string
	Run(state C) error
}

// FuncStep allows registering plain functions as pipeline steps.
type FuncStep[C any] struct {
	name string
	fn   func(C) error
}

// Name returns the human readable identifier for the step.
func (s FuncStep[C]) Name() string { return s.name }

// Run executes the wrapped function.
func (s FuncStep[C]) Run(state C) error { return s.fn(state) }

// NewFuncStep constructs a pipeline step from the provided function.
func NewFuncStep[C any](name string, fn func(C) error) FuncStep[C] {
	return FuncStep[C]{name: name, fn: fn}
}

// Pipeline orchestrates the sequential execution of registered steps.
type Pipeline[C any] struct {
	steps  []Step[C]
	logger hclog.Logger
	// done counts the steps that completed during the last Execute.
	done int
}

// New returns an empty pipeline. A nil logger discards output.
func New[C any](logger hclog.Logger) *Pipeline[C] {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pipeline[C]{logger: logger}
}

// Add appends a step to the pipeline.
func (p *Pipeline[C]) Add(step Step[C]) {
	p.steps = append(p.steps, step)
}

// AddFunc is shorthand for Add(NewFuncStep(name, fn)).
func (p *Pipeline[C]) AddFunc(name string, fn func(C) error) {
	p.Add(NewFuncStep(name, fn))
}

// Execute runs all steps in order, passing the shared state to each.
// An error returned by any step stops execution and is wrapped with the
// failing step's name. Steps are never retried.
func (p *Pipeline[C]) Execute(state C) error {
	p.done = 0
	for _, step := range p.steps {
		p.logger.Trace("step started", "step", step.Name())
		if err := step.Run(state); err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "error", err)
			return fmt.Errorf("%s step failed: %w", step.Name(), err)
		}
		p.done++
	}
	return nil
}

// Completed returns the name of the last step that finished during the most
// recent Execute, or "" when none did.
func (p *Pipeline[C]) Completed() string {
	if p.done == 0 {
		return ""
	}
	return p.steps[p.done-1].Name()
}

// Finished reports whether every step ran during the most recent Execute.
func (p *Pipeline[C]) Finished() bool {
	return len(p.steps) > 0 && p.done == len(p.steps)
}
