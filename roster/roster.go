package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/archery-tournament/models"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

type archerRecord struct {
	ID        relation `json:"id" yaml:"id"`
	FirstName string   `json:"first_name" yaml:"first_name"`
	LastName  string   `json:"last_name" yaml:"last_name"`
	Club      relation `json:"club" yaml:"club,omitempty"`
	Category  string   `json:"category" yaml:"category"`
	Gender    string   `json:"gender" yaml:"gender"`
}

type assignmentRecord struct {
	ArcherID     string          `json:"archer_id" yaml:"archer_id"`
	Archer       relation        `json:"archer,omitempty" yaml:"archer,omitempty"`
	TargetNumber int             `json:"target_number" yaml:"target_number"`
	Position     models.Position `json:"position" yaml:"position"`
	Turn         models.Turn     `json:"turn" yaml:"turn"`
	Distance     int             `json:"distance" yaml:"distance"`
	AccessCode   string          `json:"access_code,omitempty" yaml:"access_code,omitempty"`
}

// scoreRecord accepts either a whole end (arrows) or a single arrow row.
type scoreRecord struct {
	ArcherID string      `json:"archer_id" yaml:"archer_id"`
	Archer   relation    `json:"archer,omitempty" yaml:"archer,omitempty"`
	End      int         `json:"end" yaml:"end"`
	Arrow    int         `json:"arrow,omitempty" yaml:"arrow,omitempty"`
	Value    arrowCell   `json:"value,omitempty" yaml:"value,omitempty"`
	Arrows   []arrowCell `json:"arrows,omitempty" yaml:"arrows,omitempty"`
}

type document struct {
	Tournament  models.Tournament           `json:"tournament" yaml:"tournament"`
	Archers     []archerRecord              `json:"archers" yaml:"archers"`
	Assignments []assignmentRecord          `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Scores      []scoreRecord               `json:"scores,omitempty" yaml:"scores,omitempty"`
	Brackets    []models.EliminationBracket `json:"brackets,omitempty" yaml:"brackets,omitempty"`
	Matches     []*models.EliminationMatch  `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// LoadFile reads a snapshot, choosing the decoder by extension.
func LoadFile(path string) (models.Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return models.Snapshot{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	snapshot, err := Load(f, format)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to load snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

// Load decodes and normalises a snapshot. Everything returned is flat and
// validated.
func Load(r io.Reader, format Format) (models.Snapshot, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return models.Snapshot{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatXLSX:
		var err error
		doc, err = readWorkbook(r)
		if err != nil {
			return models.Snapshot{}, err
		}
	default:
		return models.Snapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return normalize(doc)
}

func normalize(doc document) (models.Snapshot, error) {
	snapshot := models.Snapshot{
		Tournament: doc.Tournament,
		Brackets:   doc.Brackets,
		Matches:    doc.Matches,
	}
	t := &snapshot.Tournament
	t.Type = models.TournamentType(strings.ToLower(strings.TrimSpace(string(t.Type))))
	// Пустой тип остаётся пустым: умолчание берётся из конфигурации.
	if t.Type != "" && !t.Type.Valid() {
		return models.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}

	known := make(map[string]bool, len(doc.Archers))
	for i, rec := range doc.Archers {
		archer, err := rec.toArcher()
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("archer %d: %w", i+1, err)
		}
		if known[archer.ID] {
			return models.Snapshot{}, fmt.Errorf("%w: %s", ErrDuplicateArcher, archer.ID)
		}
		known[archer.ID] = true
		snapshot.Archers = append(snapshot.Archers, archer)
	}

	for _, rec := range doc.Assignments {
		id := pickID(rec.ArcherID, rec.Archer)
		if !known[id] {
			return models.Snapshot{}, fmt.Errorf("assignment on target %d: %w: %q", rec.TargetNumber, ErrUnknownArcher, id)
		}
		snapshot.Assignments = append(snapshot.Assignments, models.Assignment{
			ArcherID:     id,
			TargetNumber: rec.TargetNumber,
			Position:     rec.Position,
			Turn:         rec.Turn,
			Distance:     rec.Distance,
			AccessCode:   rec.AccessCode,
		})
	}

	scores, err := flattenScores(doc.Scores, known)
	if err != nil {
		return models.Snapshot{}, err
	}
	snapshot.Scores = scores
	return snapshot, nil
}

func (rec archerRecord) toArcher() (models.Archer, error) {
	id := rec.ID.value()
	if id == "" {
		return models.Archer{}, ErrMissingArcherID
	}
	category, err := normalizeCategory(rec.Category)
	if err != nil {
		return models.Archer{}, err
	}
	gender, err := normalizeGender(rec.Gender)
	if err != nil {
		return models.Archer{}, err
	}
	archer := models.Archer{
		ID:        id,
		FirstName: strings.TrimSpace(rec.FirstName),
		LastName:  strings.TrimSpace(rec.LastName),
		Category:  category,
		Gender:    gender,
	}
	if club := rec.Club.Name; club != "" {
		archer.Club = &club
	} else if rec.Club.ID != "" {
		club := rec.Club.ID
		archer.Club = &club
	}
	return archer, nil
}

func pickID(flat string, rel relation) string {
	if id := strings.TrimSpace(flat); id != "" {
		return id
	}
	return rel.value()
}

type arrowKey struct {
	archer     string
	end, arrow int
}

func flattenScores(records []scoreRecord, known map[string]bool) ([]models.QualificationScore, error) {
	seen := make(map[arrowKey]bool)
	var out []models.QualificationScore
	add := func(id string, end, arrow int, value *int) error {
		k := arrowKey{id, end, arrow}
		if seen[k] {
			return fmt.Errorf("%w: %s end %d arrow %d", ErrDuplicateScore, id, end, arrow)
		}
		seen[k] = true
		out = append(out, models.QualificationScore{ArcherID: id, End: end, Arrow: arrow, Value: value})
		return nil
	}

	for _, rec := range records {
		id := pickID(rec.ArcherID, rec.Archer)
		if !known[id] {
			return nil, fmt.Errorf("score: %w: %q", ErrUnknownArcher, id)
		}
		if rec.End < 1 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidScoreRecord, id)
		}
		if len(rec.Arrows) > 0 {
			for i, cell := range rec.Arrows {
				if err := add(id, rec.End, i+1, cell.value); err != nil {
					return nil, err
				}
			}
			continue
		}
		if rec.Arrow < 1 {
			return nil, fmt.Errorf("%w: %s end %d", ErrInvalidScoreRecord, id, rec.End)
		}
		if err := add(id, rec.End, rec.Arrow, rec.Value.value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Save writes the snapshot back in the flat form Load reads. Scores are
// grouped into one row per archer and end.
func Save(w io.Writer, snapshot models.Snapshot, format Format) error {
	doc := document{
		Tournament: snapshot.Tournament,
		Brackets:   snapshot.Brackets,
		Matches:    snapshot.Matches,
	}
	for _, a := range snapshot.Archers {
		rec := archerRecord{
			ID:        relation{ID: a.ID, set: true},
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Category:  string(a.Category),
			Gender:    string(a.Gender),
		}
		if a.Club != nil {
			rec.Club = relation{Name: *a.Club, set: true}
		}
		doc.Archers = append(doc.Archers, rec)
	}
	for _, a := range snapshot.Assignments {
		doc.Assignments = append(doc.Assignments, assignmentRecord{
			ArcherID:     a.ArcherID,
			TargetNumber: a.TargetNumber,
			Position:     a.Position,
			Turn:         a.Turn,
			Distance:     a.Distance,
			AccessCode:   a.AccessCode,
		})
	}
	doc.Scores = groupScores(snapshot.Scores)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: cannot save %q", ErrUnsupportedFormat, format)
	}
}

// SaveFile writes to a temp file next to path and renames it over path.
func SaveFile(path string, snapshot models.Snapshot) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, snapshot, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}
	return nil
}

func groupScores(scores []models.QualificationScore) []scoreRecord {
	type endKey struct {
		archer string
		end    int
	}
	var order []endKey
	rows := make(map[endKey][]arrowCell)
	for _, s := range scores {
		k := endKey{s.ArcherID, s.End}
		cells, ok := rows[k]
		if !ok {
			order = append(order, k)
		}
		for len(cells) < s.Arrow {
			cells = append(cells, arrowCell{})
		}
		if s.Value != nil {
			v := *s.Value
			cells[s.Arrow-1] = arrowCell{value: &v}
		}
		rows[k] = cells
	}
	out := make([]scoreRecord, 0, len(order))
	for _, k := range order {
		out = append(out, scoreRecord{ArcherID: k.archer, End: k.end, Arrows: rows[k]})
	}
	return out
}
