package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionFlags(t *testing.T) {
	s := NewSession()
	assert.True(t, s.Empty())
	assert.True(t, s.SaveDisabled())
	assert.Equal(t, Idle, s.Phase())
	assert.Empty(t, s.Log())
	assert.NotEmpty(t, s.ID)

	_, ok := s.LastMidpoint()
	assert.False(t, ok)
}

func TestSingleMoveStroke(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.Begin(Point{10, 100}))
	assert.False(t, s.Empty())
	assert.True(t, s.SaveDisabled())

	seg, err := s.Extend(Point{50, 100})
	require.NoError(t, err)
	assert.Equal(t, Point{10, 100}, seg.Ctrl)
	assert.Equal(t, Point{30, 100}, seg.To)
	assert.False(t, seg.HasSmoothed)

	require.NoError(t, s.Finish())
	assert.False(t, s.SaveDisabled())
	assert.Equal(t, []any{"moveStart", 10.0, 100.0, 30.0, 100.0, "e"}, s.Log().Values())
}

func TestSmoothedTracePoint(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin(Point{0, 0}))

	_, err := s.Extend(Point{6, 0}) // mid (3,0)
	require.NoError(t, err)
	assert.True(t, s.Primed())

	seg, err := s.Extend(Point{12, 6}) // mid (9,3)
	require.NoError(t, err)
	require.True(t, seg.HasSmoothed)
	// (lastMid (3,0) + last (6,0) + mid (9,3)) / 3
	assert.Equal(t, Point{6, 1}, seg.Smoothed)
	assert.Equal(t, Point{6, 0}, seg.Ctrl)
	assert.Equal(t, Point{9, 3}, seg.To)

	require.NoError(t, s.Finish())
	assert.False(t, s.Primed())
	assert.Equal(t,
		[]any{"moveStart", 0.0, 0.0, 3.0, 0.0, 6.0, 1.0, 9.0, 3.0, "e"},
		s.Log().Values())
}

func TestLogShapePerStroke(t *testing.T) {
	for moves := 0; moves <= 6; moves++ {
		s := NewSession()
		require.NoError(t, s.Begin(Point{1, 1}))
		for i := 0; i < moves; i++ {
			_, err := s.Extend(Point{float64(i * 2), float64(i)})
			require.NoError(t, err)
		}
		require.NoError(t, s.Finish())

		log := s.Log()
		assert.Equal(t, MarkStart, log[0].Marker)
		assert.Equal(t, MarkEnd, log[len(log)-1].Marker)

		smoothed := 0
		if moves > 1 {
			smoothed = moves - 1
		}
		wantPairs := 1 + moves + smoothed
		assert.Len(t, log, 2+2*wantPairs, "moves=%d", moves)
	}
}

func TestBeginWhileStrokingRejected(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin(Point{1, 2}))
	assert.ErrorIs(t, s.Begin(Point{3, 4}), ErrStrokeInProgress)

	// second contact must not corrupt the log
	assert.Equal(t, []any{"moveStart", 1.0, 2.0}, s.Log().Values())
}

func TestExtendAndFinishWhileIdle(t *testing.T) {
	s := NewSession()
	_, err := s.Extend(Point{1, 1})
	assert.ErrorIs(t, err, ErrNotStroking)
	assert.ErrorIs(t, s.Finish(), ErrNotStroking)
	assert.True(t, s.SaveDisabled())
	assert.Empty(t, s.Log())
}

func TestDownUpWithoutMove(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin(Point{5, 5}))
	require.NoError(t, s.Finish())
	assert.False(t, s.Empty())
	assert.False(t, s.SaveDisabled())
	assert.Equal(t, []any{"moveStart", 5.0, 5.0, "e"}, s.Log().Values())
}

func TestPreviewDoesNotRecord(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin(Point{10, 10}))
	_, err := s.Extend(Point{30, 10})
	require.NoError(t, err)
	before := s.Log()

	seg, err := s.Preview(Point{50, 30})
	require.NoError(t, err)
	assert.Equal(t, Point{40, 20}, seg.To)
	assert.True(t, seg.HasSmoothed)
	assert.Equal(t, before, s.Log())
	assert.Equal(t, 2, s.Steps())

	pen, ok := s.Pen()
	require.True(t, ok)
	assert.Equal(t, Point{20, 10}, pen)

	got, err := s.Extend(Point{50, 30})
	require.NoError(t, err)
	assert.Equal(t, seg, got)
	assert.Equal(t, 3, s.Steps())

	require.NoError(t, s.Finish())
	_, ok = s.Pen()
	assert.False(t, ok)
	st := s.Strokes()
	require.Len(t, st, 1)
	assert.Equal(t, []Point{{10, 10}, {30, 10}, {50, 30}}, st[0].Points)
	assert.False(t, st[0].Open)

	_, err = s.Preview(Point{1, 1})
	assert.ErrorIs(t, err, ErrNotStroking)
}
