package roster

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/archery-tournament/models"
)

const (
	SheetTournament = "Tournament"
	SheetArchers    = "Archers"
	SheetScores     = "Scores"
)

// readWorkbook reads a registration workbook. Only the Archers sheet is
// required; Tournament holds key/value rows and Scores holds one row per
// archer and end.
func readWorkbook(r io.Reader) (document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return document{}, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]string)
	for _, name := range f.GetSheetList() {
		sheets[strings.ToLower(name)] = name
	}

	var doc document
	if name, ok := sheets[strings.ToLower(SheetTournament)]; ok {
		rows, err := f.GetRows(name)
		if err != nil {
			return document{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		if doc.Tournament, err = parseTournamentRows(rows); err != nil {
			return document{}, err
		}
	}

	name, ok := sheets[strings.ToLower(SheetArchers)]
	if !ok {
		return document{}, fmt.Errorf("%w: %s", ErrMissingSheet, SheetArchers)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return document{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if doc.Archers, err = parseArcherRows(rows); err != nil {
		return document{}, err
	}

	if name, ok := sheets[strings.ToLower(SheetScores)]; ok {
		rows, err := f.GetRows(name)
		if err != nil {
			return document{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		if doc.Scores, err = parseScoreRows(rows); err != nil {
			return document{}, err
		}
	}
	return doc, nil
}

func headerKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func columns(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if k := headerKey(h); k != "" {
			if _, dup := cols[k]; !dup {
				cols[k] = i
			}
		}
	}
	for _, r := range required {
		if _, ok := cols[r]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, r)
		}
	}
	return cols, nil
}

func parseTournamentRows(rows [][]string) (models.Tournament, error) {
	var t models.Tournament
	for i, row := range rows {
		key, value := headerKey(cell(row, 0)), cell(row, 1)
		var err error
		switch key {
		case "id":
			t.ID = value
		case "name":
			t.Name = value
		case "type":
			t.Type = models.TournamentType(value)
		case "status":
			t.Status = models.TournamentStatus(strings.ToLower(value))
		case "location":
			if value != "" {
				t.Location = &value
			}
		case "arrows_per_end":
			t.ArrowsPerEnd, err = strconv.Atoi(value)
		case "ends":
			t.Ends, err = strconv.Atoi(value)
		}
		if err != nil {
			return models.Tournament{}, fmt.Errorf("%w: %s row %d: %q", ErrInvalidCell, SheetTournament, i+1, value)
		}
	}
	return t, nil
}

func parseArcherRows(rows [][]string) ([]archerRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := columns(rows[0], "id", "category", "gender")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SheetArchers, err)
	}
	get := func(row []string, key string) string {
		idx, ok := cols[key]
		if !ok {
			return ""
		}
		return cell(row, idx)
	}

	var out []archerRecord
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := archerRecord{
			ID:        relation{ID: get(row, "id"), set: true},
			FirstName: get(row, "first_name"),
			LastName:  get(row, "last_name"),
			Category:  get(row, "category"),
			Gender:    get(row, "gender"),
		}
		if club := get(row, "club"); club != "" {
			rec.Club = relation{Name: club, set: true}
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseScoreRows treats every column after archer_id and end as an arrow,
// left to right.
func parseScoreRows(rows [][]string) ([]scoreRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := columns(rows[0], "archer_id", "end")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SheetScores, err)
	}
	var arrowCols []int
	for i := range rows[0] {
		if i != cols["archer_id"] && i != cols["end"] && headerKey(rows[0][i]) != "" {
			arrowCols = append(arrowCols, i)
		}
	}

	var out []scoreRecord
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		end, err := strconv.Atoi(cell(row, cols["end"]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d end %q", ErrInvalidCell, SheetScores, n+2, cell(row, cols["end"]))
		}
		rec := scoreRecord{ArcherID: cell(row, cols["archer_id"]), End: end}
		for _, idx := range arrowCols {
			var c arrowCell
			if err := c.parse(cell(row, idx)); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", SheetScores, n+2, err)
			}
			rec.Arrows = append(rec.Arrows, c)
		}
		out = append(out, rec)
	}
	return out, nil
}
