package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{
		TargetNumber: 3,
		ArcherIDs:    []string{"a1", "a2"},
		ArrowsPerEnd: 2,
		Ends:         2,
	})
	require.NoError(t, err)
	return s
}

func TestNewSessionRejectsEmptyConfig(t *testing.T) {
	_, err := NewSession(SessionConfig{ArrowsPerEnd: 3, Ends: 10})
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = NewSession(SessionConfig{ArcherIDs: []string{"a1"}, Ends: 10})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionWalksArchersAndEnds(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, Cursor{ArcherID: "a1", End: 1, Arrow: 1}, s.Cursor())
	require.NoError(t, s.Record(11))
	require.NoError(t, s.Record(9))
	assert.Equal(t, Cursor{ArcherID: "a2", End: 1, Arrow: 1}, s.Cursor())
	require.NoError(t, s.Record(10))
	require.NoError(t, s.Record(8))

	assert.Equal(t, SessionEndComplete, s.State())
	assert.ErrorIs(t, s.Record(5), ErrEndNotConfirmed)

	require.NoError(t, s.ConfirmEnd())
	assert.Equal(t, 1, s.ConfirmedEnds())
	assert.Equal(t, Cursor{ArcherID: "a1", End: 2, Arrow: 1}, s.Cursor())

	for _, v := range []int{7, 7, 6, 0} {
		require.NoError(t, s.Record(v))
	}
	require.NoError(t, s.ConfirmEnd())
	assert.Equal(t, SessionFinished, s.State())
	assert.ErrorIs(t, s.Record(10), ErrSessionFinished)
	assert.ErrorIs(t, s.ConfirmEnd(), ErrSessionFinished)

	sum, err := s.Summary("a1")
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 33, XCount: 1, TenCount: 1, Arrows: 4}, sum)

	sum, err = s.Summary("a2")
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 24, TenCount: 1, Arrows: 4}, sum)

	assert.Len(t, s.Scores(), 8)
}

func TestSessionUndo(t *testing.T) {
	s := newTestSession(t)

	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	require.NoError(t, s.Record(10))
	require.NoError(t, s.Record(10))
	require.NoError(t, s.Record(9))
	require.NoError(t, s.Undo())
	assert.Equal(t, Cursor{ArcherID: "a2", End: 1, Arrow: 1}, s.Cursor())

	require.NoError(t, s.Undo())
	assert.Equal(t, Cursor{ArcherID: "a1", End: 1, Arrow: 2}, s.Cursor())

	require.NoError(t, s.Record(8))
	require.NoError(t, s.Record(8))
	require.NoError(t, s.Record(8))
	require.Equal(t, SessionEndComplete, s.State())

	require.NoError(t, s.Undo())
	assert.Equal(t, SessionCollecting, s.State())
	assert.Equal(t, Cursor{ArcherID: "a2", End: 1, Arrow: 2}, s.Cursor())

	sum, err := s.Summary("a2")
	require.NoError(t, err)
	assert.Equal(t, 8, sum.Total)
}

func TestSessionRejectsInvalidValues(t *testing.T) {
	s := newTestSession(t)
	assert.ErrorIs(t, s.Record(12), ErrInvalidArrowValue)
	assert.Equal(t, Cursor{ArcherID: "a1", End: 1, Arrow: 1}, s.Cursor())

	_, err := s.Summary("nobody")
	assert.ErrorIs(t, err, ErrUnknownArcher)
}

func TestSessionConfirmIncompleteEnd(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Record(10))
	assert.ErrorIs(t, s.ConfirmEnd(), ErrEndNotComplete)
}
