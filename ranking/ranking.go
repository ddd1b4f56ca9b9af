package ranking

import (
	"fmt"
	"sort"

	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/scoring"
)

// Entry is one archer's qualification record inside a division.
type Entry struct {
	ArcherID string
	Category models.AgeCategory
	Gender   models.Gender
	Scores   []*int
}

// Division is a category+gender pool that is ranked and bracketed on its own.
type Division struct {
	Key      string
	Category models.AgeCategory
	Gender   models.Gender
	Entries  []Entry
}

func DivisionKey(category models.AgeCategory, gender models.Gender) string {
	return fmt.Sprintf("%s-%s", category, gender)
}

// Rank orders entries by total, then ten-count, then X-count, all
// descending. Ties keep input order. Seeds are 1-based positions.
func Rank(entries []Entry) []models.RankedArcher {
	ranked := make([]models.RankedArcher, len(entries))
	for i, e := range entries {
		sum := scoring.Summarize(e.Scores)
		ranked[i] = models.RankedArcher{
			ArcherID: e.ArcherID,
			Total:    sum.Total,
			XCount:   sum.XCount,
			TenCount: sum.TenCount,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.TenCount != b.TenCount {
			return a.TenCount > b.TenCount
		}
		return a.XCount > b.XCount
	})

	for i := range ranked {
		ranked[i].Seed = i + 1
	}
	return ranked
}

// Entries collects every recorded arrow per archer. Archers without scores
// still get an entry (they rank with zero).
func Entries(archers []models.Archer, scores []models.QualificationScore) []Entry {
	byArcher := make(map[string][]*int, len(archers))
	for _, s := range scores {
		if s.Value == nil {
			continue
		}
		v := *s.Value
		byArcher[s.ArcherID] = append(byArcher[s.ArcherID], &v)
	}

	entries := make([]Entry, 0, len(archers))
	for _, a := range archers {
		entries = append(entries, Entry{
			ArcherID: a.ID,
			Category: a.Category,
			Gender:   a.Gender,
			Scores:   byArcher[a.ID],
		})
	}
	return entries
}

// GroupByDivision keeps divisions in order of first appearance.
func GroupByDivision(entries []Entry) []Division {
	var divisions []Division
	index := make(map[string]int)
	for _, e := range entries {
		key := DivisionKey(e.Category, e.Gender)
		i, ok := index[key]
		if !ok {
			i = len(divisions)
			index[key] = i
			divisions = append(divisions, Division{Key: key, Category: e.Category, Gender: e.Gender})
		}
		divisions[i].Entries = append(divisions[i].Entries, e)
	}
	return divisions
}

// Standing is the ranked table of one division.
type Standing struct {
	Division Division
	Ranked   []models.RankedArcher
}

// RankDivisions ranks every division found among the archers.
func RankDivisions(archers []models.Archer, scores []models.QualificationScore) []Standing {
	divisions := GroupByDivision(Entries(archers, scores))
	out := make([]Standing, len(divisions))
	for i, d := range divisions {
		out[i] = Standing{Division: d, Ranked: Rank(d.Entries)}
	}
	return out
}
