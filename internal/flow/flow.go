package flow

import (
	"context"
	"fmt"
)

// Step is one write in an action sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

func NewStep(name string, run func(ctx context.Context) error) Step {
	return Step{Name: name, Run: run}
}

// StepError reports which step of a sequence failed and how many steps
// had already completed. Completed steps are NOT undone: sequences here
// are independent writes against the document store, not transactions,
// and a mid-sequence failure leaves the earlier writes in place.
type StepError struct {
	Sequence  string
	Step      string
	Completed int
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %q failed after %d completed step(s): %v", e.Sequence, e.Step, e.Completed, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Sequence runs its steps in order, stopping at the first failure.
type Sequence struct {
	Name  string
	Steps []Step
}

func NewSequence(name string, steps ...Step) Sequence {
	return Sequence{Name: name, Steps: steps}
}

func (s Sequence) Execute(ctx context.Context) error {
	for i, step := range s.Steps {
		if err := step.Run(ctx); err != nil {
			return &StepError{
				Sequence:  s.Name,
				Step:      step.Name,
				Completed: i,
				Err:       err,
			}
		}
	}
	return nil
}
