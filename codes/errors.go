package codes

import "errors"

var (
	ErrInvalidCode    = errors.New("access code is malformed")
	ErrCodeNotFound   = errors.New("access code does not match any target")
	ErrAmbiguousCode  = errors.New("access code matches more than one target or match")
	ErrNotAMatchCode  = errors.New("access code does not address an elimination match")
	ErrMatchSlotEmpty = errors.New("match slot has no archer yet")
)
