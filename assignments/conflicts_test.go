package assignments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/archery-tournament/models"
)

func TestCheckClubConflicts(t *testing.T) {
	archers := []models.Archer{
		{ID: "a", Club: club("Arco Norte")},
		{ID: "b", Club: club("Arco Norte")},
		{ID: "c", Club: club("Diana Sur")},
		{ID: "d"},
		{ID: "e"},
		{ID: "f", Club: club("Diana Sur")},
	}
	assignments := []models.Assignment{
		{ArcherID: "c", TargetNumber: 4},
		{ArcherID: "f", TargetNumber: 4},
		{ArcherID: "d", TargetNumber: 2},
		{ArcherID: "e", TargetNumber: 2},
		{ArcherID: "a", TargetNumber: 1},
		{ArcherID: "b", TargetNumber: 1},
	}

	assert.Equal(t, []int{1, 4}, CheckClubConflicts(assignments, archers))
}

func TestCheckClubConflictsNone(t *testing.T) {
	archers := []models.Archer{{ID: "a", Club: club("X")}, {ID: "b", Club: club("Y")}}
	assignments := []models.Assignment{{ArcherID: "a", TargetNumber: 1}, {ArcherID: "b", TargetNumber: 1}}
	assert.Empty(t, CheckClubConflicts(assignments, archers))
}

func TestDeriveTargetStatus(t *testing.T) {
	tests := []struct {
		name     string
		progress []AssignmentProgress
		want     models.TargetStatus
	}{
		{name: "no assignments", want: models.TargetInactive},
		{
			name:     "nothing shot yet",
			progress: []AssignmentProgress{{ArcherID: "a"}, {ArcherID: "b"}},
			want:     models.TargetInactive,
		},
		{
			name: "end in progress",
			progress: []AssignmentProgress{
				{ArcherID: "a", ArrowsRecorded: 3, EndsRecorded: 1},
				{ArcherID: "b"},
			},
			want: models.TargetScoring,
		},
		{
			name: "all recorded ends confirmed",
			progress: []AssignmentProgress{
				{ArcherID: "a", ArrowsRecorded: 6, EndsRecorded: 2, EndsConfirmed: 2},
				{ArcherID: "b", ArrowsRecorded: 6, EndsRecorded: 2, EndsConfirmed: 2},
			},
			want: models.TargetConfirmed,
		},
		{
			name: "conflict wins over everything",
			progress: []AssignmentProgress{
				{ArcherID: "a", ArrowsRecorded: 6, EndsRecorded: 2, EndsConfirmed: 2},
				{ArcherID: "b", ArrowsRecorded: 6, EndsRecorded: 2, EndsConfirmed: 1, Conflict: true},
			},
			want: models.TargetConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTargetStatus(tt.progress))
		})
	}
}
