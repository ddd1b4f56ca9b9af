package scoring

import (
	"fmt"

	"github.com/Dosada05/archery-tournament/models"
)

type SessionState string

const (
	SessionCollecting  SessionState = "collecting"
	SessionEndComplete SessionState = "end_complete"
	SessionFinished    SessionState = "finished"
)

type SessionConfig struct {
	TargetNumber int
	ArcherIDs    []string
	ArrowsPerEnd int
	Ends         int
}

// Cursor points at the next arrow to record. End and Arrow are 1-based.
type Cursor struct {
	ArcherID string
	End      int
	Arrow    int
}

// Session walks a target's archers through every end: all arrows of the
// first archer, then the next archer, until the end is complete and has to
// be confirmed. It holds no references outside itself.
type Session struct {
	cfg   SessionConfig
	grid  [][][]*int // archer, end, arrow
	state SessionState

	end    int
	archer int
	arrow  int
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if len(cfg.ArcherIDs) == 0 || cfg.ArrowsPerEnd < 1 || cfg.Ends < 1 {
		return nil, ErrInvalidSession
	}
	grid := make([][][]*int, len(cfg.ArcherIDs))
	for a := range grid {
		grid[a] = make([][]*int, cfg.Ends)
		for e := range grid[a] {
			grid[a][e] = make([]*int, cfg.ArrowsPerEnd)
		}
	}
	ids := make([]string, len(cfg.ArcherIDs))
	copy(ids, cfg.ArcherIDs)
	cfg.ArcherIDs = ids

	return &Session{cfg: cfg, grid: grid, state: SessionCollecting}, nil
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Cursor() Cursor {
	if s.state != SessionCollecting {
		return Cursor{}
	}
	return Cursor{
		ArcherID: s.cfg.ArcherIDs[s.archer],
		End:      s.end + 1,
		Arrow:    s.arrow + 1,
	}
}

// Record stores the arrow under the cursor and advances it.
func (s *Session) Record(value int) error {
	switch s.state {
	case SessionFinished:
		return ErrSessionFinished
	case SessionEndComplete:
		return ErrEndNotConfirmed
	}
	if !IsValid(value) {
		return fmt.Errorf("%w: %d", ErrInvalidArrowValue, value)
	}

	v := value
	s.grid[s.archer][s.end][s.arrow] = &v

	s.arrow++
	if s.arrow == s.cfg.ArrowsPerEnd {
		s.arrow = 0
		s.archer++
		if s.archer == len(s.cfg.ArcherIDs) {
			s.state = SessionEndComplete
		}
	}
	return nil
}

// Undo clears the last recorded arrow of the unconfirmed end.
func (s *Session) Undo() error {
	switch s.state {
	case SessionFinished:
		return ErrSessionFinished
	case SessionEndComplete:
		s.archer = len(s.cfg.ArcherIDs) - 1
		s.arrow = s.cfg.ArrowsPerEnd - 1
		s.state = SessionCollecting
	default:
		if s.archer == 0 && s.arrow == 0 {
			return ErrNothingToUndo
		}
		if s.arrow > 0 {
			s.arrow--
		} else {
			s.archer--
			s.arrow = s.cfg.ArrowsPerEnd - 1
		}
	}
	s.grid[s.archer][s.end][s.arrow] = nil
	return nil
}

// ConfirmEnd locks the complete end and moves to the next one.
func (s *Session) ConfirmEnd() error {
	if s.state == SessionFinished {
		return ErrSessionFinished
	}
	if s.state != SessionEndComplete {
		return ErrEndNotComplete
	}
	s.end++
	s.archer, s.arrow = 0, 0
	if s.end == s.cfg.Ends {
		s.state = SessionFinished
		return nil
	}
	s.state = SessionCollecting
	return nil
}

// ConfirmedEnds is the number of ends that can no longer change.
func (s *Session) ConfirmedEnds() int {
	return s.end
}

// Summary aggregates everything recorded for one archer so far.
func (s *Session) Summary(archerID string) (Summary, error) {
	idx := s.indexOf(archerID)
	if idx < 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownArcher, archerID)
	}
	var total Summary
	for _, end := range s.grid[idx] {
		total = total.Add(Summarize(end))
	}
	return total, nil
}

// Scores flattens the recorded arrows into qualification score rows.
func (s *Session) Scores() []models.QualificationScore {
	var out []models.QualificationScore
	for a, ends := range s.grid {
		for e, arrows := range ends {
			for i, v := range arrows {
				if v == nil {
					continue
				}
				val := *v
				out = append(out, models.QualificationScore{
					ArcherID: s.cfg.ArcherIDs[a],
					End:      e + 1,
					Arrow:    i + 1,
					Value:    &val,
				})
			}
		}
	}
	return out
}

func (s *Session) indexOf(archerID string) int {
	for i, id := range s.cfg.ArcherIDs {
		if id == archerID {
			return i
		}
	}
	return -1
}
