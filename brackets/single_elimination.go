package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/archery-tournament/models"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket builds every round of the bracket. Round 1 is seeded from
// the ranking; later rounds are empty shells that winners are routed into.
// Byes are flagged but not resolved: run ProcessFirstRoundByes (or use Build).
func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*Result, error) {
	archers := params.Archers
	if params.Cutoff > 0 && len(archers) > params.Cutoff {
		archers = archers[:params.Cutoff]
	}
	n := len(archers)

	size, err := BracketSize(n)
	if err != nil {
		return nil, fmt.Errorf("%s-%s with %d archers: %w", params.Category, params.Gender, n, err)
	}
	rounds := TotalRounds(size)

	seeded := make([]models.RankedArcher, n)
	copy(seeded, archers)
	for i := range seeded {
		seeded[i].Seed = i + 1
	}
	bySeed := make(map[int]models.RankedArcher, n)
	for _, a := range seeded {
		bySeed[a.Seed] = a
	}

	matches := make([]*models.EliminationMatch, 0, size)

	for i, pair := range SeedPairs(size) {
		position := i + 1
		m := &models.EliminationMatch{
			RoundNumber:       1,
			MatchPosition:     position,
			Status:            models.MatchStatusPending,
			NextMatchPosition: nextPosition(1, position, rounds),
		}
		if a, ok := bySeed[pair[0]]; ok {
			m.Archer1ID = stringPtr(a.ArcherID)
			m.Archer1Seed = intPtr(a.Seed)
		}
		if a, ok := bySeed[pair[1]]; ok {
			m.Archer2ID = stringPtr(a.ArcherID)
			m.Archer2Seed = intPtr(a.Seed)
		}
		m.IsBye = m.Archer1ID == nil || m.Archer2ID == nil
		matches = append(matches, m)
	}

	for r := 2; r <= rounds; r++ {
		count := size >> r
		for p := 1; p <= count; p++ {
			matches = append(matches, &models.EliminationMatch{
				RoundNumber:       r,
				MatchPosition:     p,
				Status:            models.MatchStatusPending,
				NextMatchPosition: nextPosition(r, p, rounds),
			})
		}
	}

	if params.BronzeMatch {
		matches = append(matches, &models.EliminationMatch{
			RoundNumber:   models.BronzeRound,
			MatchPosition: 1,
			Status:        models.MatchStatusPending,
		})
	}

	sortMatches(matches)

	return &Result{
		Format:      g.GetName(),
		BracketSize: size,
		Rounds:      rounds,
		Matches:     matches,
		Archers:     seeded,
	}, nil
}

// GenerateBracket runs the single-elimination generator.
func GenerateBracket(params GenerateBracketParams) (*Result, error) {
	return NewSingleEliminationGenerator().GenerateBracket(params)
}

// Build generates the bracket and resolves round-1 byes as one step, so
// nobody ever sees round 2 before the byes are in it.
func Build(params GenerateBracketParams) (*Result, error) {
	res, err := GenerateBracket(params)
	if err != nil {
		return nil, err
	}
	res.Matches = ProcessFirstRoundByes(res.Matches)
	markBronzeBye(res.Matches, res.Rounds)
	return res, nil
}

// markBronzeBye flags the bronze match as a bye when byes leave fewer than
// two contested semifinals. With one contested semifinal its loser takes
// bronze unopposed; with none the bronze match stays void.
func markBronzeBye(matches []*models.EliminationMatch, rounds int) {
	idx := indexMatches(matches)
	bronze, ok := idx[matchKey{models.BronzeRound, 1}]
	if !ok {
		return
	}
	contested := 0
	for p := 1; p <= 2; p++ {
		if semi, ok := idx[matchKey{rounds - 1, p}]; ok && !semi.IsBye {
			contested++
		}
	}
	if contested < 2 {
		bronze.IsBye = true
	}
}

func nextPosition(round, position, rounds int) *int {
	if round >= rounds {
		return nil
	}
	return intPtr((position + 1) / 2)
}

// sortMatches orders by round then position, with the bronze match last.
func sortMatches(matches []*models.EliminationMatch) {
	sort.Slice(matches, func(i, j int) bool {
		ri, rj := matches[i].RoundNumber, matches[j].RoundNumber
		if ri != rj {
			if ri == models.BronzeRound {
				return false
			}
			if rj == models.BronzeRound {
				return true
			}
			return ri < rj
		}
		return matches[i].MatchPosition < matches[j].MatchPosition
	})
}

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
