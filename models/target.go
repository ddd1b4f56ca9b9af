package models

// TargetStatus is always derived from assignment progress.
type TargetStatus string

const (
	TargetInactive  TargetStatus = "inactive"
	TargetScoring   TargetStatus = "scoring"
	TargetConfirmed TargetStatus = "confirmed"
	TargetConflict  TargetStatus = "conflict"
)

type Position string

const (
	PositionA Position = "A"
	PositionB Position = "B"
	PositionC Position = "C"
	PositionD Position = "D"
)

// Positions in the order archers are placed on a target.
var Positions = []Position{PositionA, PositionB, PositionC, PositionD}

// Turn is the sub-group of a target that shoots together.
type Turn string

const (
	TurnAB Turn = "AB"
	TurnCD Turn = "CD"
)

type Target struct {
	Number   int          `json:"number" yaml:"number"`
	Distance int          `json:"distance" yaml:"distance"`
	Status   TargetStatus `json:"status" yaml:"status"`
}

type Assignment struct {
	ArcherID     string   `json:"archer_id" yaml:"archer_id"`
	TargetNumber int      `json:"target_number" yaml:"target_number"`
	Position     Position `json:"position" yaml:"position"`
	Turn         Turn     `json:"turn" yaml:"turn"`
	Distance     int      `json:"distance" yaml:"distance"`
	AccessCode   string   `json:"access_code,omitempty" yaml:"access_code,omitempty"`
}
