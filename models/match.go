package models

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusShootOff   MatchStatus = "shootoff"
	MatchStatusCompleted  MatchStatus = "completed"
)

// BronzeRound is the round number reserved for the bronze-medal match.
const BronzeRound = 0

// EliminationBracket is unique per tournament, category and gender.
type EliminationBracket struct {
	ID           string      `json:"id" yaml:"id"`
	TournamentID string      `json:"tournament_id" yaml:"tournament_id"`
	Category     AgeCategory `json:"category" yaml:"category"`
	Gender       Gender      `json:"gender" yaml:"gender"`
	BracketSize  int         `json:"bracket_size" yaml:"bracket_size"`
	CurrentRound int         `json:"current_round" yaml:"current_round"`
	IsCompleted  bool        `json:"is_completed" yaml:"is_completed"`
	BronzeMatch  bool        `json:"bronze_match,omitempty" yaml:"bronze_match,omitempty"`
}

// Set is one scoring round of an elimination match. Results are 2 (win),
// 1 (tie) or 0 (loss).
type Set struct {
	Number        int    `json:"number" yaml:"number"`
	Archer1Arrows []*int `json:"archer1_arrows" yaml:"archer1_arrows"`
	Archer2Arrows []*int `json:"archer2_arrows" yaml:"archer2_arrows"`
	Archer1Result int    `json:"archer1_result" yaml:"archer1_result"`
	Archer2Result int    `json:"archer2_result" yaml:"archer2_result"`
}

type EliminationMatch struct {
	ID                string      `json:"id,omitempty" yaml:"id,omitempty"`
	BracketID         string      `json:"bracket_id,omitempty" yaml:"bracket_id,omitempty"`
	RoundNumber       int         `json:"round_number" yaml:"round_number"`
	MatchPosition     int         `json:"match_position" yaml:"match_position"`
	Archer1ID         *string     `json:"archer1_id,omitempty" yaml:"archer1_id,omitempty"`
	Archer2ID         *string     `json:"archer2_id,omitempty" yaml:"archer2_id,omitempty"`
	Archer1Seed       *int        `json:"archer1_seed,omitempty" yaml:"archer1_seed,omitempty"`
	Archer2Seed       *int        `json:"archer2_seed,omitempty" yaml:"archer2_seed,omitempty"`
	Archer1SetPoints  int         `json:"archer1_set_points" yaml:"archer1_set_points"`
	Archer2SetPoints  int         `json:"archer2_set_points" yaml:"archer2_set_points"`
	Status            MatchStatus `json:"status" yaml:"status"`
	WinnerID          *string     `json:"winner_id,omitempty" yaml:"winner_id,omitempty"`
	IsBye             bool        `json:"is_bye" yaml:"is_bye"`
	NextMatchPosition *int        `json:"next_match_position,omitempty" yaml:"next_match_position,omitempty"`
	Sets              []Set       `json:"sets,omitempty" yaml:"sets,omitempty"`

	// Distance from the centre for the single shoot-off arrow.
	Archer1ShootOff *float64 `json:"archer1_shootoff,omitempty" yaml:"archer1_shootoff,omitempty"`
	Archer2ShootOff *float64 `json:"archer2_shootoff,omitempty" yaml:"archer2_shootoff,omitempty"`
}

func (m *EliminationMatch) HasBothArchers() bool {
	return m.Archer1ID != nil && m.Archer2ID != nil
}

// IsCompleted never reports true for a match without a winner.
func (m *EliminationMatch) IsCompleted() bool {
	return m.Status == MatchStatusCompleted && m.WinnerID != nil
}

// IsVoid reports a bye slot that received no archer at all.
func (m *EliminationMatch) IsVoid() bool {
	return m.IsBye && m.Archer1ID == nil && m.Archer2ID == nil
}

// WinnerSeed returns the seed the winner entered this match with.
func (m *EliminationMatch) WinnerSeed() *int {
	if m.WinnerID == nil {
		return nil
	}
	if m.Archer1ID != nil && *m.Archer1ID == *m.WinnerID {
		return m.Archer1Seed
	}
	if m.Archer2ID != nil && *m.Archer2ID == *m.WinnerID {
		return m.Archer2Seed
	}
	return nil
}

// Loser returns the defeated archer and their seed, if the match was decided
// between two archers.
func (m *EliminationMatch) Loser() (*string, *int) {
	if !m.IsCompleted() || !m.HasBothArchers() {
		return nil, nil
	}
	if *m.Archer1ID == *m.WinnerID {
		return m.Archer2ID, m.Archer2Seed
	}
	return m.Archer1ID, m.Archer1Seed
}

// Clone returns a deep copy so engine functions never mutate their inputs.
func (m *EliminationMatch) Clone() *EliminationMatch {
	if m == nil {
		return nil
	}
	c := *m
	c.Archer1ID = cloneString(m.Archer1ID)
	c.Archer2ID = cloneString(m.Archer2ID)
	c.Archer1Seed = cloneInt(m.Archer1Seed)
	c.Archer2Seed = cloneInt(m.Archer2Seed)
	c.WinnerID = cloneString(m.WinnerID)
	c.NextMatchPosition = cloneInt(m.NextMatchPosition)
	c.Archer1ShootOff = cloneFloat(m.Archer1ShootOff)
	c.Archer2ShootOff = cloneFloat(m.Archer2ShootOff)
	if m.Sets != nil {
		c.Sets = make([]Set, len(m.Sets))
		for i, s := range m.Sets {
			s.Archer1Arrows = cloneArrows(s.Archer1Arrows)
			s.Archer2Arrows = cloneArrows(s.Archer2Arrows)
			c.Sets[i] = s
		}
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneArrows(arrows []*int) []*int {
	if arrows == nil {
		return nil
	}
	out := make([]*int, len(arrows))
	for i, a := range arrows {
		out[i] = cloneInt(a)
	}
	return out
}
