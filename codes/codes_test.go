package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/archery-tournament/models"
)

func TestFormatting(t *testing.T) {
	assert.Equal(t, "T7", TargetCode(7))
	assert.Equal(t, "M2-3B", LegacyMatchCode(2, 3, SideB))
}

func TestNewRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewRandomCode()
		require.NoError(t, err)
		assert.Len(t, code, RandomCodeLength)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")

		parsed, err := Parse(code)
		require.NoError(t, err)
		assert.Equal(t, KindRandom, parsed.Kind)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    Code
		wantErr bool
	}{
		{raw: "T12", want: Code{Kind: KindTarget, Raw: "T12", TargetNumber: 12}},
		{raw: " t3 ", want: Code{Kind: KindTarget, Raw: "T3", TargetNumber: 3}},
		{raw: "M1-4A", want: Code{Kind: KindMatch, Raw: "M1-4A", Round: 1, Position: 4, Side: SideA}},
		{raw: "m0-1b", want: Code{Kind: KindMatch, Raw: "M0-1B", Round: 0, Position: 1, Side: SideB}},
		{raw: "ABC234", want: Code{Kind: KindRandom, Raw: "ABC234"}},
		{raw: "T0", wantErr: true},
		{raw: "M1-4C", wantErr: true},
		{raw: "ABCDE", wantErr: true},
		{raw: "ABCDE0", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	refs := []TargetRef{
		{TournamentID: "spring", TournamentStatus: models.StatusActive, TargetNumber: 1, AccessCode: "KQ7ZX2"},
		{TournamentID: "spring", TournamentStatus: models.StatusActive, TargetNumber: 2},
		{TournamentID: "autumn", TournamentStatus: models.StatusCompleted, TargetNumber: 1},
		{TournamentID: "indoor", TournamentStatus: models.StatusActive, TargetNumber: 2},
	}

	ref, err := Resolve("T1", refs)
	require.NoError(t, err)
	assert.Equal(t, "spring", ref.TournamentID)

	_, err = Resolve("T2", refs)
	assert.ErrorIs(t, err, ErrAmbiguousCode)

	_, err = Resolve("T9", refs)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	ref, err = Resolve("kq7zx2", refs)
	require.NoError(t, err)
	assert.Equal(t, 1, ref.TargetNumber)

	_, err = Resolve("M1-1A", refs)
	assert.ErrorIs(t, err, ErrNotAMatchCode)

	_, err = Resolve("??", refs)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestRefs(t *testing.T) {
	snapshot := models.Snapshot{
		Tournament: models.Tournament{ID: "spring", Status: models.StatusActive},
		Assignments: []models.Assignment{
			{ArcherID: "a", TargetNumber: 1},
			{ArcherID: "b", TargetNumber: 1, AccessCode: "KQ7ZX2"},
			{ArcherID: "c", TargetNumber: 2},
		},
	}
	refs := Refs(snapshot)
	require.Len(t, refs, 2)
	assert.Equal(t, "KQ7ZX2", refs[0].AccessCode)
	assert.Equal(t, 2, refs[1].TargetNumber)
	assert.Equal(t, models.StatusActive, refs[1].TournamentStatus)
}

func TestResolveMatch(t *testing.T) {
	a, b := "anna", "bea"
	matches := []*models.EliminationMatch{
		{RoundNumber: 1, MatchPosition: 1, Archer1ID: &a, Archer2ID: &b},
		{RoundNumber: 2, MatchPosition: 1, Archer1ID: &a},
	}

	m, archer, err := ResolveMatch("M1-1B", matches)
	require.NoError(t, err)
	assert.Same(t, matches[0], m)
	assert.Equal(t, "bea", archer)

	_, _, err = ResolveMatch("M2-1B", matches)
	assert.ErrorIs(t, err, ErrMatchSlotEmpty)

	_, _, err = ResolveMatch("M3-1A", matches)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, _, err = ResolveMatch("T1", matches)
	assert.ErrorIs(t, err, ErrNotAMatchCode)

	_, _, err = ResolveMatch("M1-", matches)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResolveMatchAcrossBrackets(t *testing.T) {
	women, men := "w1", "m1"
	matches := []*models.EliminationMatch{
		{ID: "f1", BracketID: "women", RoundNumber: 1, MatchPosition: 1, Archer1ID: &women},
		{ID: "g1", BracketID: "men", RoundNumber: 1, MatchPosition: 1, Archer1ID: &men},
	}

	_, _, err := ResolveMatch("M1-1A", matches)
	assert.ErrorIs(t, err, ErrAmbiguousCode)

	m, archer, err := ResolveMatch("M1-1A", matches[1:])
	require.NoError(t, err)
	assert.Equal(t, "g1", m.ID)
	assert.Equal(t, "m1", archer)
}
