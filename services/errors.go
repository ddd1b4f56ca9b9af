package services

import "errors"

// Общие ошибки сервисного слоя.
var (
	ErrNoArchers        = errors.New("tournament has no archers")
	ErrAssignmentsExist = errors.New("targets are already assigned; replace them explicitly")

	// Ошибки сетки
	ErrBracketExists    = errors.New("bracket for this division already exists; replace it explicitly")
	ErrDivisionNotFound = errors.New("division not found")
	ErrBracketNotFound  = errors.New("bracket not found")
	ErrMatchNotFound    = errors.New("match not found")

	ErrNoUploader = errors.New("no uploader configured")
)
