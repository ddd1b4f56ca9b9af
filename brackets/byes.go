package brackets

import "github.com/Dosada05/archery-tournament/models"

type matchKey struct {
	round    int
	position int
}

func indexMatches(matches []*models.EliminationMatch) map[matchKey]*models.EliminationMatch {
	idx := make(map[matchKey]*models.EliminationMatch, len(matches))
	for _, m := range matches {
		idx[matchKey{m.RoundNumber, m.MatchPosition}] = m
	}
	return idx
}

// ProcessFirstRoundByes completes every round-1 bye and writes the present
// archer, with their seed, into round 2: slot 1 from an odd position, slot 2
// from an even one. The input is not modified.
//
// Small fields can leave a round-1 match without any archer. Such a match
// never completes; when it feeds a later match whose other feeder produced
// an archer, that later match becomes a bye too and is resolved the same way.
func ProcessFirstRoundByes(matches []*models.EliminationMatch) []*models.EliminationMatch {
	out := make([]*models.EliminationMatch, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	idx := indexMatches(out)

	rounds := 0
	for _, m := range out {
		if m.RoundNumber > rounds {
			rounds = m.RoundNumber
		}
	}

	for _, m := range out {
		if m.RoundNumber == 1 && m.IsBye {
			resolveBye(m, idx)
		}
	}

	for r := 2; r <= rounds; r++ {
		for p := 1; ; p++ {
			m, ok := idx[matchKey{r, p}]
			if !ok {
				break
			}
			feeder1 := idx[matchKey{r - 1, 2*p - 1}]
			feeder2 := idx[matchKey{r - 1, 2 * p}]
			if !isVoid(feeder1) && !isVoid(feeder2) {
				continue
			}
			if !settled(feeder1) || !settled(feeder2) {
				continue
			}
			m.IsBye = true
			resolveBye(m, idx)
		}
	}
	return out
}

func isVoid(m *models.EliminationMatch) bool {
	return m != nil && m.IsVoid()
}

func settled(m *models.EliminationMatch) bool {
	return m == nil || m.IsVoid() || m.IsCompleted()
}

func resolveBye(m *models.EliminationMatch, idx map[matchKey]*models.EliminationMatch) {
	var id *string
	var seed *int
	switch {
	case m.Archer1ID != nil && m.Archer2ID == nil:
		id, seed = m.Archer1ID, m.Archer1Seed
	case m.Archer2ID != nil && m.Archer1ID == nil:
		id, seed = m.Archer2ID, m.Archer2Seed
	default:
		return
	}

	m.WinnerID = stringPtr(*id)
	m.Status = models.MatchStatusCompleted

	if m.NextMatchPosition == nil {
		return
	}
	next, ok := idx[matchKey{m.RoundNumber + 1, *m.NextMatchPosition}]
	if !ok {
		return
	}
	placeInSlot(next, m.MatchPosition, *id, seed)
}

// placeInSlot writes an archer into slot 1 for odd source positions and
// slot 2 for even ones.
func placeInSlot(next *models.EliminationMatch, sourcePosition int, archerID string, seed *int) {
	if sourcePosition%2 == 1 {
		next.Archer1ID = stringPtr(archerID)
		next.Archer1Seed = copyInt(seed)
		return
	}
	next.Archer2ID = stringPtr(archerID)
	next.Archer2Seed = copyInt(seed)
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	return intPtr(*i)
}
