package assignments

import "github.com/Dosada05/archery-tournament/models"

// AssignmentProgress is what the scoring side knows about one assignment.
type AssignmentProgress struct {
	ArcherID       string
	ArrowsRecorded int
	EndsRecorded   int
	EndsConfirmed  int
	// Conflict is set when two scoring clients submitted different values.
	Conflict bool
}

// DeriveTargetStatus recomputes a target's status from its assignments.
func DeriveTargetStatus(progress []AssignmentProgress) models.TargetStatus {
	recorded := 0
	confirmed := true
	for _, p := range progress {
		if p.Conflict {
			return models.TargetConflict
		}
		recorded += p.ArrowsRecorded
		if p.EndsRecorded == 0 || p.EndsConfirmed < p.EndsRecorded {
			confirmed = false
		}
	}
	if recorded == 0 {
		return models.TargetInactive
	}
	if confirmed {
		return models.TargetConfirmed
	}
	return models.TargetScoring
}
