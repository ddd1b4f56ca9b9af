package models

import "time"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// TournamentType decides which distance table applies to the archers.
type TournamentType string

const (
	TournamentIndoor  TournamentType = "indoor"
	TournamentOutdoor TournamentType = "outdoor"
)

func (t TournamentType) Valid() bool {
	return t == TournamentIndoor || t == TournamentOutdoor
}

// Tournament представляет турнир.
type Tournament struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Type      TournamentType   `json:"type" yaml:"type"`
	Status    TournamentStatus `json:"status" yaml:"status"`
	Location  *string          `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate time.Time        `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   time.Time        `json:"end_date,omitempty" yaml:"end_date,omitempty"`

	// Количество стрел в серии и количество серий квалификации.
	ArrowsPerEnd int `json:"arrows_per_end,omitempty" yaml:"arrows_per_end,omitempty"`
	Ends         int `json:"ends,omitempty" yaml:"ends,omitempty"`
}

func (t Tournament) IsActive() bool {
	return t.Status == StatusActive
}
