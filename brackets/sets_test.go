package brackets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/scoring"
)

func readyMatch() *models.EliminationMatch {
	return &models.EliminationMatch{
		RoundNumber:       1,
		MatchPosition:     3,
		Archer1ID:         stringPtr("anna"),
		Archer2ID:         stringPtr("bea"),
		Archer1Seed:       intPtr(3),
		Archer2Seed:       intPtr(14),
		Status:            models.MatchStatusPending,
		NextMatchPosition: intPtr(2),
	}
}

func TestScoreSet(t *testing.T) {
	tests := []struct {
		name string
		a1   []*int
		a2   []*int
		want SetPoints
	}{
		{name: "archer 1 wins", a1: scoring.Arrows(10, 10, 10), a2: scoring.Arrows(9, 9, 9), want: SetPoints{2, 0}},
		{name: "equal totals", a1: scoring.Arrows(8, 8, 8), a2: scoring.Arrows(9, 7, 8), want: SetPoints{1, 1}},
		{name: "archer 2 wins", a1: scoring.Arrows(7, 7, 7), a2: scoring.Arrows(11, 10, 8), want: SetPoints{0, 2}},
		{name: "X counts as ten", a1: scoring.Arrows(11, 11, 11), a2: scoring.Arrows(10, 10, 10), want: SetPoints{1, 1}},
		{name: "unshot arrows count zero", a1: []*int{nil, nil, nil}, a2: scoring.Arrows(0, 0, 0), want: SetPoints{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreSet(tt.a1, tt.a2))
		})
	}
}

func playSets(t *testing.T, m *models.EliminationMatch, sets [][2][]int) *models.EliminationMatch {
	t.Helper()
	for _, s := range sets {
		var err error
		m, err = ApplySet(m, scoring.Arrows(s[0]...), scoring.Arrows(s[1]...), DefaultMatchRules())
		require.NoError(t, err)
	}
	return m
}

func TestApplySetWinsAtThreshold(t *testing.T) {
	m := readyMatch()
	m = playSets(t, m, [][2][]int{
		{{10, 10, 10}, {9, 9, 9}},
		{{9, 9, 9}, {9, 9, 9}},
		{{10, 9, 9}, {10, 10, 10}},
	})
	assert.Equal(t, models.MatchStatusInProgress, m.Status)
	assert.Equal(t, 3, m.Archer1SetPoints)
	assert.Equal(t, 3, m.Archer2SetPoints)
	assert.Nil(t, m.WinnerID)

	m = playSets(t, m, [][2][]int{
		{{10, 10, 10}, {8, 8, 8}},
		{{11, 10, 10}, {10, 10, 10}},
	})
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	assert.Equal(t, 7, m.Archer1SetPoints)
	assert.Equal(t, 3, m.Archer2SetPoints)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, "anna", *m.WinnerID)
	assert.Len(t, m.Sets, 5)

	_, err := ApplySet(m, scoring.Arrows(10), scoring.Arrows(10), DefaultMatchRules())
	assert.ErrorIs(t, err, ErrMatchCompleted)
}

func TestApplySetEarlyWin(t *testing.T) {
	m := playSets(t, readyMatch(), [][2][]int{
		{{8, 8, 8}, {9, 9, 9}},
		{{8, 8, 8}, {9, 9, 9}},
		{{8, 8, 8}, {9, 9, 9}},
	})
	assert.True(t, m.IsCompleted())
	assert.Equal(t, "bea", *m.WinnerID)
	assert.Equal(t, 14, *m.WinnerSeed())
}

func TestApplySetLeadsToShootOff(t *testing.T) {
	m := playSets(t, readyMatch(), [][2][]int{
		{{10, 10, 10}, {9, 9, 9}},
		{{9, 9, 9}, {10, 10, 10}},
		{{10, 10, 10}, {9, 9, 9}},
		{{9, 9, 9}, {10, 10, 10}},
		{{9, 9, 9}, {9, 9, 9}},
	})
	assert.Equal(t, models.MatchStatusShootOff, m.Status)
	assert.Equal(t, 5, m.Archer1SetPoints)
	assert.Equal(t, 5, m.Archer2SetPoints)
	assert.False(t, m.IsCompleted())

	_, err := ApplySet(m, scoring.Arrows(10), scoring.Arrows(9), DefaultMatchRules())
	assert.ErrorIs(t, err, ErrShootOffPending)

	_, err = ResolveShootOff(m, 2.5, 2.5)
	assert.ErrorIs(t, err, ErrShootOffTied)

	for _, d := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = ResolveShootOff(m, d, 2)
		assert.ErrorIs(t, err, ErrInvalidShootOffDistance, "distance %v", d)
		_, err = ResolveShootOff(m, 2, d)
		assert.ErrorIs(t, err, ErrInvalidShootOffDistance, "distance %v", d)
	}

	done, err := ResolveShootOff(m, 4.1, 1.2)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted())
	assert.Equal(t, "bea", *done.WinnerID)
	assert.Equal(t, 6, done.Archer2SetPoints)
	assert.Equal(t, 5, done.Archer1SetPoints)
	assert.Equal(t, models.MatchStatusShootOff, m.Status, "input must not be modified")
}

func TestResolveShootOffRequiresShootOff(t *testing.T) {
	_, err := ResolveShootOff(readyMatch(), 1, 2)
	assert.ErrorIs(t, err, ErrNotInShootOff)
}

func TestApplySetValidation(t *testing.T) {
	m := readyMatch()

	_, err := ApplySet(m, scoring.Arrows(10, 10, 10, 10), scoring.Arrows(9), DefaultMatchRules())
	assert.ErrorIs(t, err, ErrTooManyArrows)

	_, err = ApplySet(m, scoring.Arrows(10, 12), scoring.Arrows(9), DefaultMatchRules())
	assert.ErrorIs(t, err, scoring.ErrInvalidArrowValue)

	_, err = ApplySet(m, nil, nil, DefaultMatchRules())
	assert.ErrorIs(t, err, ErrEmptySet)
	_, err = ApplySet(m, scoring.Arrows(10), []*int{nil, nil}, DefaultMatchRules())
	assert.ErrorIs(t, err, ErrEmptySet)

	waiting := readyMatch()
	waiting.Archer2ID = nil
	_, err = ApplySet(waiting, scoring.Arrows(10), scoring.Arrows(9), DefaultMatchRules())
	assert.ErrorIs(t, err, ErrMatchNotReady)

	assert.Empty(t, m.Sets)
	assert.Equal(t, models.MatchStatusPending, m.Status)
}

func TestApplySetCustomRules(t *testing.T) {
	rules := MatchRules{WinThreshold: 4, MaxSets: 3, ArrowsPerSet: 6}
	m := readyMatch()

	var err error
	m, err = ApplySet(m, scoring.Arrows(10, 10, 10, 10, 10, 10), scoring.Arrows(9, 9, 9, 9, 9, 9), rules)
	require.NoError(t, err)
	m, err = ApplySet(m, scoring.Arrows(9), scoring.Arrows(9), rules)
	require.NoError(t, err)
	m, err = ApplySet(m, scoring.Arrows(8), scoring.Arrows(9), rules)
	require.NoError(t, err)

	// 3-3 after the last set.
	assert.Equal(t, models.MatchStatusShootOff, m.Status)

	zero := MatchRules{}
	m2, err := ApplySet(readyMatch(), scoring.Arrows(10, 10, 10), scoring.Arrows(9, 9, 9), zero)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, m2.Status)
}
