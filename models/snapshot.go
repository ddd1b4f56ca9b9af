package models

// Snapshot is the immutable view of a tournament the services operate on.
type Snapshot struct {
	Tournament  Tournament           `json:"tournament" yaml:"tournament"`
	Archers     []Archer             `json:"archers" yaml:"archers"`
	Assignments []Assignment         `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Scores      []QualificationScore `json:"scores,omitempty" yaml:"scores,omitempty"`
	Brackets    []EliminationBracket `json:"brackets,omitempty" yaml:"brackets,omitempty"`
	Matches     []*EliminationMatch  `json:"matches,omitempty" yaml:"matches,omitempty"`
}

func (s *Snapshot) ArcherByID(id string) (Archer, bool) {
	for _, a := range s.Archers {
		if a.ID == id {
			return a, true
		}
	}
	return Archer{}, false
}
