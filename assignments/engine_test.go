package assignments

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/archery-tournament/models"
)

func club(name string) *string { return &name }

func fakeArchers(t *testing.T, seed uint64, n int) []models.Archer {
	t.Helper()
	faker := gofakeit.New(seed)
	clubs := []string{"Arco Norte", "Diana Sur", "Flecha Azul", "Los Olmos"}

	archers := make([]models.Archer, n)
	for i := range archers {
		a := models.Archer{
			ID:        fmt.Sprintf("a%d", i+1),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Category:  models.AgeCategories[faker.IntN(len(models.AgeCategories))],
			Gender:    models.GenderMale,
		}
		if faker.Bool() {
			a.Gender = models.GenderFemale
		}
		if faker.IntN(5) > 0 {
			a.Club = club(clubs[faker.IntN(len(clubs))])
		}
		archers[i] = a
	}
	return archers
}

func TestGenerateAssignmentsProperties(t *testing.T) {
	for _, tournamentType := range []models.TournamentType{models.TournamentIndoor, models.TournamentOutdoor} {
		for seed := uint64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("%s/seed-%d", tournamentType, seed), func(t *testing.T) {
				archers := fakeArchers(t, seed, 57)
				result := GenerateAssignments(archers, tournamentType, 1)

				require.Len(t, result.Assignments, len(archers))

				seenArcher := make(map[string]bool)
				byTarget := make(map[int]map[models.Position]bool)
				keyByTarget := make(map[int]string)
				for _, a := range result.Assignments {
					assert.False(t, seenArcher[a.ArcherID], "archer %s assigned twice", a.ArcherID)
					seenArcher[a.ArcherID] = true

					assert.Contains(t, models.Positions, a.Position)
					if byTarget[a.TargetNumber] == nil {
						byTarget[a.TargetNumber] = make(map[models.Position]bool)
					}
					assert.False(t, byTarget[a.TargetNumber][a.Position], "duplicate position on target %d", a.TargetNumber)
					byTarget[a.TargetNumber][a.Position] = true

					archer := findArcher(t, archers, a.ArcherID)
					_, key := Classify(archer, tournamentType)
					if prev, ok := keyByTarget[a.TargetNumber]; ok {
						assert.Equal(t, prev, key, "target %d mixes groups", a.TargetNumber)
					}
					keyByTarget[a.TargetNumber] = key
				}

				for n, positions := range byTarget {
					assert.LessOrEqual(t, len(positions), ArchersPerTarget, "target %d", n)
				}
				assert.Equal(t, len(byTarget), result.TargetCount)
				assert.Len(t, result.Targets(), result.TargetCount)
			})
		}
	}
}

func findArcher(t *testing.T, archers []models.Archer, id string) models.Archer {
	t.Helper()
	for _, a := range archers {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("archer %s not found", id)
	return models.Archer{}
}

func TestGenerateAssignmentsLayout(t *testing.T) {
	archers := []models.Archer{
		{ID: "s1", Category: models.CategorySenior, Gender: models.GenderMale},
		{ID: "s2", Category: models.CategorySenior, Gender: models.GenderMale},
		{ID: "s3", Category: models.CategorySenior, Gender: models.GenderMale},
		{ID: "s4", Category: models.CategorySenior, Gender: models.GenderMale},
		{ID: "s5", Category: models.CategorySenior, Gender: models.GenderMale},
		{ID: "j1", Category: models.CategoryU15, Gender: models.GenderMale},
	}

	result := GenerateAssignments(archers, models.TournamentOutdoor, 5)

	want := []models.Assignment{
		{ArcherID: "s1", TargetNumber: 5, Position: models.PositionA, Turn: models.TurnAB, Distance: 70},
		{ArcherID: "s2", TargetNumber: 5, Position: models.PositionB, Turn: models.TurnAB, Distance: 70},
		{ArcherID: "s3", TargetNumber: 5, Position: models.PositionC, Turn: models.TurnCD, Distance: 70},
		{ArcherID: "s4", TargetNumber: 5, Position: models.PositionD, Turn: models.TurnCD, Distance: 70},
		{ArcherID: "s5", TargetNumber: 6, Position: models.PositionA, Turn: models.TurnAB, Distance: 70},
		{ArcherID: "j1", TargetNumber: 7, Position: models.PositionA, Turn: models.TurnAB, Distance: 40},
	}
	assert.Equal(t, want, result.Assignments)
	assert.Equal(t, 3, result.TargetCount)
}

func TestGenerateAssignmentsDefaultsStartTarget(t *testing.T) {
	archers := []models.Archer{{ID: "a", Category: models.CategoryU10, Gender: models.GenderFemale}}
	result := GenerateAssignments(archers, models.TournamentIndoor, 0)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, 1, result.Assignments[0].TargetNumber)
	assert.Equal(t, 18, result.Assignments[0].Distance)
}

func TestGenerateAssignmentsEmpty(t *testing.T) {
	result := GenerateAssignments(nil, models.TournamentIndoor, 1)
	assert.Empty(t, result.Assignments)
	assert.Zero(t, result.TargetCount)
}

func TestInterleaveClubs(t *testing.T) {
	archers := []models.Archer{
		{ID: "b1", Club: club("B")},
		{ID: "n1"},
		{ID: "a1", Club: club("A")},
		{ID: "a2", Club: club("A")},
		{ID: "a3", Club: club("A")},
		{ID: "b2", Club: club("B")},
		{ID: "c1", Club: club("C")},
		{ID: "n2", Club: club("  ")},
	}

	got := interleaveClubs(archers)

	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"a1", "b1", "c1", "a2", "b2", "a3", "n1", "n2"}, ids)
}

func TestInterleaveSeparatesTwoClubs(t *testing.T) {
	var archers []models.Archer
	for i := 0; i < 4; i++ {
		archers = append(archers, models.Archer{ID: fmt.Sprintf("x%d", i), Club: club("X"), Category: models.CategorySenior, Gender: models.GenderMale})
	}
	for i := 0; i < 4; i++ {
		archers = append(archers, models.Archer{ID: fmt.Sprintf("y%d", i), Club: club("Y"), Category: models.CategorySenior, Gender: models.GenderMale})
	}

	result := GenerateAssignments(archers, models.TournamentIndoor, 1)

	// Two clubs of four over two targets cannot avoid sharing, but no target
	// gets three archers from the same club.
	perTarget := make(map[int]map[string]int)
	for _, a := range result.Assignments {
		c := findArcher(t, archers, a.ArcherID).ClubName()
		if perTarget[a.TargetNumber] == nil {
			perTarget[a.TargetNumber] = make(map[string]int)
		}
		perTarget[a.TargetNumber][c]++
	}
	for n, counts := range perTarget {
		for c, count := range counts {
			assert.Equal(t, 2, count, "target %d club %s", n, c)
		}
	}
}
