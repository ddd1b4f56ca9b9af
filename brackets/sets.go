package brackets

import (
	"fmt"
	"math"

	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/scoring"
)

const (
	DefaultWinThreshold = 6
	DefaultMaxSets      = 5
	DefaultArrowsPerSet = 3
)

// MatchRules configures set play. Zero fields fall back to the defaults.
type MatchRules struct {
	WinThreshold int `json:"win_threshold" yaml:"win_threshold"`
	MaxSets      int `json:"max_sets" yaml:"max_sets"`
	ArrowsPerSet int `json:"arrows_per_set" yaml:"arrows_per_set"`
}

func DefaultMatchRules() MatchRules {
	return MatchRules{
		WinThreshold: DefaultWinThreshold,
		MaxSets:      DefaultMaxSets,
		ArrowsPerSet: DefaultArrowsPerSet,
	}
}

func (r MatchRules) withDefaults() MatchRules {
	if r.WinThreshold <= 0 {
		r.WinThreshold = DefaultWinThreshold
	}
	if r.MaxSets <= 0 {
		r.MaxSets = DefaultMaxSets
	}
	if r.ArrowsPerSet <= 0 {
		r.ArrowsPerSet = DefaultArrowsPerSet
	}
	return r
}

type SetPoints struct {
	Archer1Points int `json:"archer1_points"`
	Archer2Points int `json:"archer2_points"`
}

// ScoreSet compares set totals: 2-0 for the higher total, 1-1 on a tie.
func ScoreSet(archer1Arrows, archer2Arrows []*int) SetPoints {
	t1 := scoring.Total(archer1Arrows)
	t2 := scoring.Total(archer2Arrows)
	switch {
	case t1 > t2:
		return SetPoints{Archer1Points: 2}
	case t2 > t1:
		return SetPoints{Archer2Points: 2}
	default:
		return SetPoints{Archer1Points: 1, Archer2Points: 1}
	}
}

// ApplySet scores one set and returns the updated match. The match passed
// in is left untouched.
func ApplySet(match *models.EliminationMatch, archer1Arrows, archer2Arrows []*int, rules MatchRules) (*models.EliminationMatch, error) {
	rules = rules.withDefaults()

	switch {
	case match.Status == models.MatchStatusCompleted:
		return nil, ErrMatchCompleted
	case match.Status == models.MatchStatusShootOff:
		return nil, ErrShootOffPending
	case !match.HasBothArchers():
		return nil, ErrMatchNotReady
	}
	if len(archer1Arrows) > rules.ArrowsPerSet || len(archer2Arrows) > rules.ArrowsPerSet {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyArrows, rules.ArrowsPerSet)
	}
	if err := scoring.Validate(archer1Arrows); err != nil {
		return nil, fmt.Errorf("archer 1: %w", err)
	}
	if err := scoring.Validate(archer2Arrows); err != nil {
		return nil, fmt.Errorf("archer 2: %w", err)
	}
	if scoring.Summarize(archer1Arrows).Arrows == 0 || scoring.Summarize(archer2Arrows).Arrows == 0 {
		return nil, ErrEmptySet
	}

	updated := match.Clone()
	points := ScoreSet(archer1Arrows, archer2Arrows)
	updated.Sets = append(updated.Sets, models.Set{
		Number:        len(updated.Sets) + 1,
		Archer1Arrows: copyArrows(archer1Arrows),
		Archer2Arrows: copyArrows(archer2Arrows),
		Archer1Result: points.Archer1Points,
		Archer2Result: points.Archer2Points,
	})
	updated.Archer1SetPoints += points.Archer1Points
	updated.Archer2SetPoints += points.Archer2Points
	updated.Status = models.MatchStatusInProgress

	p1, p2 := updated.Archer1SetPoints, updated.Archer2SetPoints
	reached := p1 >= rules.WinThreshold || p2 >= rules.WinThreshold
	exhausted := len(updated.Sets) >= rules.MaxSets
	if !reached && !exhausted {
		return updated, nil
	}

	switch {
	case p1 > p2:
		updated.WinnerID = stringPtr(*updated.Archer1ID)
		updated.Status = models.MatchStatusCompleted
	case p2 > p1:
		updated.WinnerID = stringPtr(*updated.Archer2ID)
		updated.Status = models.MatchStatusCompleted
	default:
		updated.Status = models.MatchStatusShootOff
	}
	return updated, nil
}

// ResolveShootOff decides a tied match with one arrow each; the arrow
// closer to the centre wins and earns the deciding set point.
func ResolveShootOff(match *models.EliminationMatch, archer1Distance, archer2Distance float64) (*models.EliminationMatch, error) {
	if match.Status != models.MatchStatusShootOff {
		return nil, ErrNotInShootOff
	}
	if !validDistance(archer1Distance) || !validDistance(archer2Distance) {
		return nil, ErrInvalidShootOffDistance
	}
	if archer1Distance == archer2Distance {
		return nil, ErrShootOffTied
	}

	updated := match.Clone()
	updated.Archer1ShootOff = &archer1Distance
	updated.Archer2ShootOff = &archer2Distance
	if archer1Distance < archer2Distance {
		updated.WinnerID = stringPtr(*updated.Archer1ID)
		updated.Archer1SetPoints++
	} else {
		updated.WinnerID = stringPtr(*updated.Archer2ID)
		updated.Archer2SetPoints++
	}
	updated.Status = models.MatchStatusCompleted
	return updated, nil
}

func validDistance(d float64) bool {
	return d >= 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func copyArrows(arrows []*int) []*int {
	out := make([]*int, len(arrows))
	for i, a := range arrows {
		out[i] = copyInt(a)
	}
	return out
}
