package reset

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientLiquidity = errors.New("burn amount exceeds available LP balance")
	// ErrUnsupportedDirection is returned when reaching the target price would
	// require adding to the first coin. Only withdrawals of coin 0 are planned.
	ErrUnsupportedDirection = errors.New("target price requires growing the first balance")
	ErrInvalidPrice         = errors.New("impacted price must be positive")
)

// StageError records the stage at which a reset stopped.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("price reset failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
