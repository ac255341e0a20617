package service

import "errors"

var (
	ErrNoPrices      = errors.New("at least one target price is required")
	ErrTooManyPrices = errors.New("too many target prices")
)
