package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/ranking"
	"github.com/Dosada05/archery-tournament/scoring"
)

const (
	SheetAssignments = "Assignments"
	SheetRankings    = "Rankings"
	SheetBrackets    = "Brackets"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	assignmentHeader = []interface{}{"Target", "Position", "Turn", "Distance", "Archer", "Club", "Category", "Gender", "Code"}
	rankingHeader    = []interface{}{"Division", "Seed", "Archer", "Club", "Total", "10s", "Xs"}
	bracketHeader    = []interface{}{"Division", "Round", "Match", "Archer 1", "Seed 1", "Archer 2", "Seed 2", "Set points", "Sets", "Shoot-off", "Winner", "Status"}
)

// FileName builds the object key for a results workbook.
func FileName(t models.Tournament, now time.Time) string {
	id := strings.TrimSpace(t.ID)
	if id == "" {
		id = "tournament"
	}
	return fmt.Sprintf("%s-results-%s.xlsx", id, now.UTC().Format("20060102-150405"))
}

// Write renders the workbook straight into w.
func Write(w io.Writer, snapshot models.Snapshot, standings []ranking.Standing) error {
	f, err := Build(snapshot, standings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build lays out assignments, division rankings and bracket matches on
// three sheets. The caller owns the returned file.
func Build(snapshot models.Snapshot, standings []ranking.Standing) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &builder{f: f, snapshot: snapshot}

	if err := f.SetSheetName(f.GetSheetName(0), SheetAssignments); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetRankings, SheetBrackets} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	steps := []func() error{
		b.writeAssignments,
		func() error { return b.writeRankings(standings) },
		b.writeBrackets,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

type builder struct {
	f        *excelize.File
	snapshot models.Snapshot
	style    int
}

func (b *builder) headerStyle() (int, error) {
	if b.style != 0 {
		return b.style, nil
	}
	id, err := b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	b.style = id
	return id, nil
}

func (b *builder) writeRows(sheet string, header []interface{}, rows [][]interface{}) error {
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := b.f.SetSheetRow(sheet, axis, &r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	style, err := b.headerStyle()
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return b.f.SetColWidth(sheet, "A", lastCol, 14)
}

func (b *builder) archerName(id *string) string {
	if id == nil {
		return ""
	}
	if a, ok := b.snapshot.ArcherByID(*id); ok && a.FullName() != "" {
		return a.FullName()
	}
	return *id
}

func (b *builder) club(id string) string {
	a, _ := b.snapshot.ArcherByID(id)
	return a.ClubName()
}

func (b *builder) writeAssignments() error {
	list := append([]models.Assignment(nil), b.snapshot.Assignments...)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].TargetNumber != list[j].TargetNumber {
			return list[i].TargetNumber < list[j].TargetNumber
		}
		return list[i].Position < list[j].Position
	})

	rows := make([][]interface{}, 0, len(list))
	for _, a := range list {
		archer, _ := b.snapshot.ArcherByID(a.ArcherID)
		id := a.ArcherID
		rows = append(rows, []interface{}{
			a.TargetNumber, string(a.Position), string(a.Turn), a.Distance,
			b.archerName(&id), archer.ClubName(), string(archer.Category), string(archer.Gender), a.AccessCode,
		})
	}
	return b.writeRows(SheetAssignments, assignmentHeader, rows)
}

func (b *builder) writeRankings(standings []ranking.Standing) error {
	var rows [][]interface{}
	for _, s := range standings {
		for _, r := range s.Ranked {
			id := r.ArcherID
			rows = append(rows, []interface{}{
				s.Division.Key, r.Seed, b.archerName(&id), b.club(id), r.Total, r.TenCount, r.XCount,
			})
		}
	}
	return b.writeRows(SheetRankings, rankingHeader, rows)
}

func (b *builder) writeBrackets() error {
	division := make(map[string]models.EliminationBracket, len(b.snapshot.Brackets))
	for _, br := range b.snapshot.Brackets {
		division[br.ID] = br
	}

	matches := append([]*models.EliminationMatch(nil), b.snapshot.Matches...)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].BracketID != matches[j].BracketID {
			return matches[i].BracketID < matches[j].BracketID
		}
		// бронза после финала
		ri, rj := roundOrder(matches[i].RoundNumber), roundOrder(matches[j].RoundNumber)
		if ri != rj {
			return ri < rj
		}
		return matches[i].MatchPosition < matches[j].MatchPosition
	})

	var rows [][]interface{}
	for _, m := range matches {
		br := division[m.BracketID]
		if m.IsVoid() {
			continue
		}
		rows = append(rows, []interface{}{
			ranking.DivisionKey(br.Category, br.Gender),
			brackets.RoundName(br.BracketSize, m.RoundNumber),
			m.MatchPosition,
			b.archerName(m.Archer1ID), seed(m.Archer1Seed),
			b.archerName(m.Archer2ID), seed(m.Archer2Seed),
			fmt.Sprintf("%d-%d", m.Archer1SetPoints, m.Archer2SetPoints),
			formatSets(m.Sets),
			formatShootOff(m),
			b.archerName(m.WinnerID),
			string(m.Status),
		})
	}
	return b.writeRows(SheetBrackets, bracketHeader, rows)
}

func roundOrder(round int) int {
	if round == models.BronzeRound {
		return brackets.MaxArchers
	}
	return round
}

func seed(s *int) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func formatArrows(arrows []*int) string {
	parts := make([]string, 0, len(arrows))
	for _, a := range arrows {
		if a == nil {
			continue
		}
		parts = append(parts, scoring.FormatArrow(a))
	}
	return strings.Join(parts, "-")
}

// formatSets renders "X-10-9 : 9-9-9" per set, sets separated by " | ".
func formatSets(sets []models.Set) string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = formatArrows(s.Archer1Arrows) + " : " + formatArrows(s.Archer2Arrows)
	}
	return strings.Join(out, " | ")
}

func formatShootOff(m *models.EliminationMatch) string {
	if m.Archer1ShootOff == nil || m.Archer2ShootOff == nil {
		return ""
	}
	return fmt.Sprintf("%.1f : %.1f", *m.Archer1ShootOff, *m.Archer2ShootOff)
}
