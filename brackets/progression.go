package brackets

import (
	"fmt"

	"github.com/Dosada05/archery-tournament/models"
)

// AdvanceWinner returns a copy of the next-round match with the winner of
// match placed in it, keeping the seed the winner started with.
func AdvanceWinner(match *models.EliminationMatch, allMatches []*models.EliminationMatch) (*models.EliminationMatch, error) {
	if !match.IsCompleted() {
		return nil, ErrMatchNotCompleted
	}
	if match.NextMatchPosition == nil {
		return nil, ErrNoNextMatch
	}

	key := matchKey{match.RoundNumber + 1, *match.NextMatchPosition}
	next, ok := indexMatches(allMatches)[key]
	if !ok {
		return nil, fmt.Errorf("%w: round %d position %d", ErrNextMatchNotFound, key.round, key.position)
	}

	return placeArcher(next, match.MatchPosition, *match.WinnerID, match.WinnerSeed())
}

// RouteLoser sends the loser of a semifinal to the bronze match.
func RouteLoser(semifinal *models.EliminationMatch, allMatches []*models.EliminationMatch) (*models.EliminationMatch, error) {
	if !semifinal.IsCompleted() {
		return nil, ErrMatchNotCompleted
	}
	if semifinal.RoundNumber != finalRound(allMatches)-1 {
		return nil, ErrNotSemifinal
	}
	bronze, ok := indexMatches(allMatches)[matchKey{models.BronzeRound, 1}]
	if !ok {
		return nil, ErrNoBronzeMatch
	}
	loserID, loserSeed := semifinal.Loser()
	if loserID == nil {
		return nil, ErrMatchNotReady
	}
	updated, err := placeArcher(bronze, semifinal.MatchPosition, *loserID, loserSeed)
	if err != nil {
		return nil, err
	}
	// Единственный полуфиналист без соперника получает бронзу сразу.
	if updated.IsBye {
		updated.WinnerID = stringPtr(*loserID)
		updated.Status = models.MatchStatusCompleted
	}
	return updated, nil
}

func placeArcher(next *models.EliminationMatch, sourcePosition int, archerID string, seed *int) (*models.EliminationMatch, error) {
	current := next.Archer2ID
	if sourcePosition%2 == 1 {
		current = next.Archer1ID
	}
	if current != nil && *current != archerID {
		return nil, fmt.Errorf("%w: round %d position %d", ErrSlotOccupied, next.RoundNumber, next.MatchPosition)
	}

	updated := next.Clone()
	placeInSlot(updated, sourcePosition, archerID, seed)
	return updated, nil
}

func finalRound(matches []*models.EliminationMatch) int {
	last := 0
	for _, m := range matches {
		if m.RoundNumber > last {
			last = m.RoundNumber
		}
	}
	return last
}

// Progress recomputes the bracket's current round and completion flag from
// its matches. The stored values are never trusted.
func Progress(bracket models.EliminationBracket, matches []*models.EliminationMatch) models.EliminationBracket {
	last := finalRound(matches)
	current := 0
	finalDone := false
	bronzeDone := true
	for _, m := range matches {
		if m.RoundNumber == models.BronzeRound {
			bronzeDone = m.IsCompleted() || m.IsVoid()
			continue
		}
		if m.RoundNumber == last && m.IsCompleted() {
			finalDone = true
		}
		if m.IsCompleted() || m.IsVoid() {
			continue
		}
		if current == 0 || m.RoundNumber < current {
			current = m.RoundNumber
		}
	}
	if current == 0 {
		current = last
	}

	bracket.CurrentRound = current
	bracket.IsCompleted = finalDone && bronzeDone
	return bracket
}

// Replace returns matches with updated swapped in by round and position.
func Replace(matches []*models.EliminationMatch, updated ...*models.EliminationMatch) []*models.EliminationMatch {
	byKey := make(map[matchKey]*models.EliminationMatch, len(updated))
	for _, u := range updated {
		byKey[matchKey{u.RoundNumber, u.MatchPosition}] = u
	}
	out := make([]*models.EliminationMatch, len(matches))
	for i, m := range matches {
		if u, ok := byKey[matchKey{m.RoundNumber, m.MatchPosition}]; ok {
			out[i] = u
			continue
		}
		out[i] = m
	}
	return out
}
