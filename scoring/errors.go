package scoring

import "errors"

var (
	ErrInvalidArrowValue = errors.New("arrow value must be between 0 and 11")

	// Ошибки сессии подсчёта
	ErrInvalidSession  = errors.New("scoring session needs archers, arrows per end and ends")
	ErrSessionFinished = errors.New("scoring session is finished")
	ErrEndNotConfirmed = errors.New("current end must be confirmed before recording more arrows")
	ErrEndNotComplete  = errors.New("current end is not complete")
	ErrNothingToUndo   = errors.New("nothing to undo in the current end")
	ErrUnknownArcher   = errors.New("archer is not part of this scoring session")
)
