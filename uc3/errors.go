package uc3

import "errors"

var (
	ErrInvalidChannel   = errors.New("invalid channel")
	ErrInvalidSource    = errors.New("invalid clock source")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrTimeout          = errors.New("wait failed")
)
