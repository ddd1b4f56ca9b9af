package roster

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	ErrAmbiguousRelation = errors.New("relation resolves to more than one record")

	// Ошибки валидации снимка
	ErrMissingArcherID    = errors.New("archer id is required")
	ErrDuplicateArcher    = errors.New("archer id is used more than once")
	ErrInvalidCategory    = errors.New("unknown age category")
	ErrInvalidGender      = errors.New("unknown gender")
	ErrInvalidType        = errors.New("unknown tournament type")
	ErrUnknownArcher      = errors.New("record references an unknown archer")
	ErrDuplicateScore     = errors.New("arrow is recorded more than once")
	ErrMissingSheet       = errors.New("workbook sheet is missing")
	ErrMissingColumn      = errors.New("sheet column is missing")
	ErrInvalidCell        = errors.New("sheet cell has an invalid value")
	ErrInvalidScoreRecord = errors.New("score record needs an end and an arrow")
)
