package eth

import "errors"

var (
	ErrUnexpectedOutput = errors.New("unexpected contract output")
	ErrValueTooLarge    = errors.New("contract returned a value wider than 256 bits")
)
