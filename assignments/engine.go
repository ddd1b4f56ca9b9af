package assignments

import (
	"sort"

	"github.com/Dosada05/archery-tournament/models"
)

const ArchersPerTarget = 4

var turnByPosition = map[models.Position]models.Turn{
	models.PositionA: models.TurnAB,
	models.PositionB: models.TurnAB,
	models.PositionC: models.TurnCD,
	models.PositionD: models.TurnCD,
}

type Result struct {
	Assignments []models.Assignment
	TargetCount int
}

// Targets derives the target list from assignments, ordered by number.
func (r Result) Targets() []models.Target {
	seen := make(map[int]bool)
	var targets []models.Target
	for _, a := range r.Assignments {
		if seen[a.TargetNumber] {
			continue
		}
		seen[a.TargetNumber] = true
		targets = append(targets, models.Target{
			Number:   a.TargetNumber,
			Distance: a.Distance,
			Status:   models.TargetInactive,
		})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Number < targets[j].Number })
	return targets
}

type group struct {
	key      string
	distance int
	archers  []models.Archer
}

// GenerateAssignments places archers four per target. Each classification
// group starts on a fresh target and is interleaved by club first.
func GenerateAssignments(archers []models.Archer, tournamentType models.TournamentType, startTarget int) Result {
	if startTarget < 1 {
		startTarget = 1
	}

	groups := groupArchers(archers, tournamentType)

	result := Result{Assignments: make([]models.Assignment, 0, len(archers))}
	target := startTarget
	for _, g := range groups {
		ordered := interleaveClubs(g.archers)
		for i, archer := range ordered {
			slot := i % ArchersPerTarget
			if i > 0 && slot == 0 {
				target++
			}
			position := models.Positions[slot]
			result.Assignments = append(result.Assignments, models.Assignment{
				ArcherID:     archer.ID,
				TargetNumber: target,
				Position:     position,
				Turn:         turnByPosition[position],
				Distance:     g.distance,
			})
		}
		if len(ordered) > 0 {
			target++
			result.TargetCount += (len(ordered) + ArchersPerTarget - 1) / ArchersPerTarget
		}
	}
	return result
}

func groupArchers(archers []models.Archer, tournamentType models.TournamentType) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, a := range archers {
		distance, key := Classify(a, tournamentType)
		g, ok := index[key]
		if !ok {
			g = &group{key: key, distance: distance}
			index[key] = g
			groups = append(groups, g)
		}
		g.archers = append(g.archers, a)
	}
	return groups
}

// interleaveClubs takes one archer from each club in turn, largest clubs
// first, and appends archers without a club at the end. It lowers the
// chance of clubmates sharing a target but does not rule it out.
func interleaveClubs(archers []models.Archer) []models.Archer {
	type clubGroup struct {
		club    string
		archers []models.Archer
	}

	var clubs []*clubGroup
	index := make(map[string]*clubGroup)
	var noClub []models.Archer
	for _, a := range archers {
		club := a.ClubName()
		if club == "" {
			noClub = append(noClub, a)
			continue
		}
		cg, ok := index[club]
		if !ok {
			cg = &clubGroup{club: club}
			index[club] = cg
			clubs = append(clubs, cg)
		}
		cg.archers = append(cg.archers, a)
	}

	sort.SliceStable(clubs, func(i, j int) bool {
		return len(clubs[i].archers) > len(clubs[j].archers)
	})

	out := make([]models.Archer, 0, len(archers))
	for remaining := len(archers) - len(noClub); remaining > 0; {
		for _, cg := range clubs {
			if len(cg.archers) == 0 {
				continue
			}
			out = append(out, cg.archers[0])
			cg.archers = cg.archers[1:]
			remaining--
		}
	}
	return append(out, noClub...)
}
