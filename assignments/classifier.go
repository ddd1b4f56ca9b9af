package assignments

import (
	"fmt"

	"github.com/Dosada05/archery-tournament/models"
)

const indoorDistance = 18

var outdoorDistances = map[models.AgeCategory]int{
	models.CategoryU10:      20,
	models.CategoryU13:      30,
	models.CategoryU15:      40,
	models.CategoryU18:      60,
	models.CategoryU21:      70,
	models.CategorySenior:   70,
	models.CategoryMaster50: 60,
	models.CategoryMaster65: 50,
}

// Distance returns the shooting distance in meters. Unknown categories
// yield 0 outdoors; callers are expected to validate categories first.
func Distance(category models.AgeCategory, tournamentType models.TournamentType) int {
	if tournamentType == models.TournamentIndoor {
		return indoorDistance
	}
	return outdoorDistances[category]
}

// Classify returns the distance and the key that clusters archers who
// compete against each other.
func Classify(archer models.Archer, tournamentType models.TournamentType) (int, string) {
	distance := Distance(archer.Category, tournamentType)
	return distance, GroupKey(archer.Category, archer.Gender, distance)
}

func GroupKey(category models.AgeCategory, gender models.Gender, distance int) string {
	return fmt.Sprintf("%s-%s-%d", category, gender, distance)
}
