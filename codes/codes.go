package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dosada05/archery-tournament/models"
)

type Kind string

const (
	KindTarget Kind = "target"
	KindMatch  Kind = "match"
	KindRandom Kind = "random"
)

// Side picks the archer slot in a legacy match code.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

const RandomCodeLength = 6

// Без 0/O и 1/I, чтобы код можно было продиктовать.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	targetPattern = regexp.MustCompile(`^T([1-9][0-9]*)$`)
	matchPattern  = regexp.MustCompile(`^M([0-9]+)-([1-9][0-9]*)([AB])$`)
	randomPattern = regexp.MustCompile(`^[` + alphabet + `]{6}$`)
)

// Code is a parsed access code.
type Code struct {
	Kind         Kind
	Raw          string
	TargetNumber int
	Round        int
	Position     int
	Side         Side
}

func TargetCode(targetNumber int) string {
	return fmt.Sprintf("T%d", targetNumber)
}

func LegacyMatchCode(round, position int, side Side) string {
	return fmt.Sprintf("M%d-%d%s", round, position, side)
}

// NewRandomCode draws a six character code from crypto/rand. Codes that
// would read as a target code are drawn again.
func NewRandomCode() (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	for {
		var sb strings.Builder
		for i := 0; i < RandomCodeLength; i++ {
			n, err := rand.Int(rand.Reader, size)
			if err != nil {
				return "", fmt.Errorf("failed to generate access code: %w", err)
			}
			sb.WriteByte(alphabet[n.Int64()])
		}
		if code := sb.String(); !targetPattern.MatchString(code) {
			return code, nil
		}
	}
}

// Parse classifies a code. Input is trimmed and upper-cased first.
func Parse(raw string) (Code, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))

	if m := targetPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Code{Kind: KindTarget, Raw: s, TargetNumber: n}, nil
	}
	if m := matchPattern.FindStringSubmatch(s); m != nil {
		round, _ := strconv.Atoi(m[1])
		pos, _ := strconv.Atoi(m[2])
		return Code{Kind: KindMatch, Raw: s, Round: round, Position: pos, Side: Side(m[3])}, nil
	}
	if randomPattern.MatchString(s) {
		return Code{Kind: KindRandom, Raw: s}, nil
	}
	return Code{}, fmt.Errorf("%w: %q", ErrInvalidCode, raw)
}

// TargetRef is one target of one tournament a code may point at.
type TargetRef struct {
	TournamentID     string                  `json:"tournament_id"`
	TournamentStatus models.TournamentStatus `json:"tournament_status"`
	TargetNumber     int                     `json:"target_number"`
	AccessCode       string                  `json:"access_code,omitempty"`
}

// Refs lists the targets of a snapshot, one per target number. The first
// assignment carrying an access code wins.
func Refs(snapshot models.Snapshot) []TargetRef {
	byTarget := make(map[int]int)
	var out []TargetRef
	for _, a := range snapshot.Assignments {
		idx, ok := byTarget[a.TargetNumber]
		if !ok {
			byTarget[a.TargetNumber] = len(out)
			out = append(out, TargetRef{
				TournamentID:     snapshot.Tournament.ID,
				TournamentStatus: snapshot.Tournament.Status,
				TargetNumber:     a.TargetNumber,
				AccessCode:       a.AccessCode,
			})
			continue
		}
		if out[idx].AccessCode == "" {
			out[idx].AccessCode = a.AccessCode
		}
	}
	return out
}

// Resolve finds the target a target or random code opens. Only targets of
// active tournaments are considered.
func Resolve(raw string, refs []TargetRef) (TargetRef, error) {
	code, err := Parse(raw)
	if err != nil {
		return TargetRef{}, err
	}

	var found []TargetRef
	for _, ref := range refs {
		if ref.TournamentStatus != models.StatusActive {
			continue
		}
		switch code.Kind {
		case KindTarget:
			if ref.TargetNumber == code.TargetNumber {
				found = append(found, ref)
			}
		case KindRandom:
			if strings.EqualFold(ref.AccessCode, code.Raw) {
				found = append(found, ref)
			}
		case KindMatch:
			return TargetRef{}, fmt.Errorf("%w: %s", ErrNotAMatchCode, code.Raw)
		}
	}

	switch len(found) {
	case 0:
		return TargetRef{}, fmt.Errorf("%w: %s", ErrCodeNotFound, code.Raw)
	case 1:
		return found[0], nil
	default:
		return TargetRef{}, fmt.Errorf("%w: %s (%d tournaments)", ErrAmbiguousCode, code.Raw, len(found))
	}
}

// ResolveMatch returns the match and archer a legacy match code addresses.
// The code carries no bracket, so matches from several brackets sharing the
// round and position make it ambiguous; scope matches to one bracket first.
func ResolveMatch(raw string, matches []*models.EliminationMatch) (*models.EliminationMatch, string, error) {
	code, err := Parse(raw)
	if err != nil {
		return nil, "", err
	}
	if code.Kind != KindMatch {
		return nil, "", fmt.Errorf("%w: %s", ErrNotAMatchCode, code.Raw)
	}

	var found []*models.EliminationMatch
	for _, m := range matches {
		if m.RoundNumber == code.Round && m.MatchPosition == code.Position {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, "", fmt.Errorf("%w: %s", ErrCodeNotFound, code.Raw)
	case 1:
	default:
		return nil, "", fmt.Errorf("%w: %s (%d brackets)", ErrAmbiguousCode, code.Raw, len(found))
	}

	m := found[0]
	id := m.Archer1ID
	if code.Side == SideB {
		id = m.Archer2ID
	}
	if id == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrMatchSlotEmpty, code.Raw)
	}
	return m, *id, nil
}
