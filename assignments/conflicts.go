package assignments

import (
	"sort"

	"github.com/Dosada05/archery-tournament/models"
)

// CheckClubConflicts lists, in ascending order, the targets where two or
// more archers belong to the same club. It is a report, not a validation.
func CheckClubConflicts(assignments []models.Assignment, archers []models.Archer) []int {
	clubs := make(map[string]string, len(archers))
	for _, a := range archers {
		if club := a.ClubName(); club != "" {
			clubs[a.ID] = club
		}
	}

	seen := make(map[int]map[string]bool)
	flagged := make(map[int]bool)
	for _, as := range assignments {
		club, ok := clubs[as.ArcherID]
		if !ok {
			continue
		}
		if seen[as.TargetNumber] == nil {
			seen[as.TargetNumber] = make(map[string]bool)
		}
		if seen[as.TargetNumber][club] {
			flagged[as.TargetNumber] = true
		}
		seen[as.TargetNumber][club] = true
	}

	targets := make([]int, 0, len(flagged))
	for n := range flagged {
		targets = append(targets, n)
	}
	sort.Ints(targets)
	return targets
}
