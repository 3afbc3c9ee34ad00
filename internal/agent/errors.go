package agent

import "fmt"

// ValidationError reports bad input: non-positive amounts, allocations that
// do not sum to 100. No state mutation happens when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError reports an operation that is invalid for the current
// state: no strategy configured, insufficient pool balance, insufficient
// portfolio value. The message names the specific shortfall. No state
// mutation happens when one is returned.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}
