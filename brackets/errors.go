package brackets

import "errors"

var (
	// Ошибки генерации сетки
	ErrNotEnoughArchers = errors.New("not enough archers to generate an elimination bracket (minimum 2)")
	ErrTooManyArchers   = errors.New("elimination brackets support at most 128 archers")

	// Ошибки матчей
	ErrMatchCompleted          = errors.New("match is already completed")
	ErrMatchNotReady           = errors.New("match does not have two archers yet")
	ErrMatchNotCompleted       = errors.New("match has no winner yet")
	ErrShootOffPending         = errors.New("match is tied and waiting for a shoot-off")
	ErrNotInShootOff           = errors.New("match is not in a shoot-off")
	ErrShootOffTied            = errors.New("shoot-off distances are equal")
	ErrInvalidShootOffDistance = errors.New("shoot-off distance must be a finite non-negative number")
	ErrTooManyArrows           = errors.New("too many arrows for one set")
	ErrEmptySet                = errors.New("each archer must shoot at least one arrow in a set")
	ErrNoNextMatch             = errors.New("match has no next match")
	ErrNextMatchNotFound       = errors.New("next round match not found")
	ErrSlotOccupied            = errors.New("next match slot already holds another archer")
	ErrNoBronzeMatch           = errors.New("bracket has no bronze match")
	ErrNotSemifinal            = errors.New("only semifinal losers go to the bronze match")
)
