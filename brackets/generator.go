package brackets

import "github.com/Dosada05/archery-tournament/models"

type GenerateBracketParams struct {
	Category models.AgeCategory
	Gender   models.Gender
	// Archers must be sorted and seeded by the ranking.
	Archers []models.RankedArcher
	// Cutoff keeps only the top N archers; 0 keeps everyone.
	Cutoff      int
	BronzeMatch bool
}

type Result struct {
	// Format is the name of the generator that produced the bracket.
	Format      string
	BracketSize int
	Rounds      int
	Matches     []*models.EliminationMatch
	Archers     []models.RankedArcher
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*Result, error)

	GetName() string
}
