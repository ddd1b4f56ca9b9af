package brackets

import (
	"fmt"
	"math/bits"

	"github.com/Dosada05/archery-tournament/models"
)

var roundsFromFinalNames = map[int]string{
	1: "Final",
	2: "Semifinal",
	3: "Quarterfinal",
	4: "1/8",
	5: "1/16",
	6: "1/32",
	7: "1/64",
}

// RoundName labels a round for a bracket of the given size.
func RoundName(bracketSize, roundNumber int) string {
	if roundNumber == models.BronzeRound {
		return "Bronze Medal"
	}
	fromFinal := TotalRounds(bracketSize) - roundNumber + 1
	if name, ok := roundsFromFinalNames[fromFinal]; ok && roundNumber > 0 {
		return name
	}
	return fmt.Sprintf("Round %d", roundNumber)
}

// TotalRounds is log2 of a power-of-two bracket size.
func TotalRounds(bracketSize int) int {
	if bracketSize < 2 {
		return 0
	}
	return bits.Len(uint(bracketSize)) - 1
}
