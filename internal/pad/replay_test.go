package pad

import (
	"testing"

	"SignaturePad/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsMirrorOntoSecondPad(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	dst, _ := attached(t, 300, 150)

	var ops []state.Op
	src.OnLocalOp = func(op state.Op) { ops = append(ops, op) }

	srcHost.down(t, 10, 100)
	srcHost.move(t, 50, 100)
	srcHost.move(t, 80, 90)
	srcHost.up(t)

	require.Len(t, ops, 4)
	for i, op := range ops {
		assert.Equal(t, uint64(i+1), op.Lamport)
		require.NoError(t, dst.Apply(op))
	}
	assert.Equal(t, src.PointLog(), dst.PointLog())
	assert.False(t, dst.SaveDisabled())

	srcPNG, err := src.PNG()
	require.NoError(t, err)
	dstPNG, err := dst.PNG()
	require.NoError(t, err)
	assert.Equal(t, srcPNG, dstPNG)
}

func TestClearAndResizeOps(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	dst, _ := attached(t, 100, 100)

	var ops []state.Op
	src.OnLocalOp = func(op state.Op) { ops = append(ops, op) }

	srcHost.w, srcHost.h = 320, 160
	require.NoError(t, src.Resize())
	require.NoError(t, src.Clear())
	require.Len(t, ops, 2)
	assert.Equal(t, state.OpResize, ops[0].Type)
	assert.Equal(t, state.OpClear, ops[1].Type)

	for _, op := range ops {
		require.NoError(t, dst.Apply(op))
	}
	w, h, err := dst.Size()
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 160, h)
	assert.True(t, dst.IsEmpty())
}

func TestRestoreFromSync(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	srcHost.down(t, 10, 100)
	srcHost.move(t, 50, 100)
	srcHost.move(t, 90, 60)
	srcHost.up(t)
	srcHost.down(t, 200, 50)
	srcHost.move(t, 220, 70)

	sync, err := src.SyncState()
	require.NoError(t, err)

	dst, _ := attached(t, 50, 50)
	require.NoError(t, dst.Restore(sync))

	assert.Equal(t, src.PointLog(), dst.PointLog())
	assert.Equal(t, state.Stroking, dst.Phase())
	w, h, err := dst.Size()
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)

	// the open stroke continues with live ops
	require.NoError(t, dst.Apply(state.Op{Type: state.OpEnd}))
	assert.False(t, dst.SaveDisabled())
}

func requireSamePixels(t *testing.T, want, got *Pad) {
	t.Helper()
	wantPNG, err := want.PNG()
	require.NoError(t, err)
	gotPNG, err := got.PNG()
	require.NoError(t, err)
	assert.Equal(t, wantPNG, gotPNG)
}

func TestRestoreAfterResizeDropsWipedInk(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	srcHost.down(t, 10, 100)
	srcHost.move(t, 50, 100)
	srcHost.move(t, 90, 60)
	srcHost.up(t)

	srcHost.w, srcHost.h = 320, 160
	require.NoError(t, src.Resize())
	srcHost.down(t, 200, 50)
	srcHost.move(t, 240, 70)
	srcHost.up(t)

	sync, err := src.SyncState()
	require.NoError(t, err)
	assert.Equal(t, 4, sync.InkFrom)

	dst, _ := attached(t, 50, 50)
	require.NoError(t, dst.Restore(sync))
	requireSamePixels(t, src, dst)
	assert.Equal(t, src.PointLog(), dst.PointLog())
	assert.False(t, dst.SaveDisabled())
}

func TestRestoreAfterResizeMidStroke(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	srcHost.down(t, 10, 100)
	srcHost.move(t, 50, 100)
	srcHost.move(t, 90, 60)
	srcHost.w, srcHost.h = 320, 160
	require.NoError(t, src.Resize())
	srcHost.move(t, 140, 70)

	sync, err := src.SyncState()
	require.NoError(t, err)

	dst, _ := attached(t, 50, 50)
	require.NoError(t, dst.Restore(sync))
	requireSamePixels(t, src, dst)
	assert.Equal(t, state.Stroking, dst.Phase())

	// the resize op also lands on a live viewer the same way
	live, _ := attached(t, 300, 150)
	require.NoError(t, live.Apply(state.Op{Type: state.OpStart, Point: state.Point{X: 10, Y: 100}}))
	require.NoError(t, live.Apply(state.Op{Type: state.OpMove, Point: state.Point{X: 50, Y: 100}}))
	require.NoError(t, live.Apply(state.Op{Type: state.OpMove, Point: state.Point{X: 90, Y: 60}}))
	require.NoError(t, live.Apply(state.Op{Type: state.OpResize, Width: 320, Height: 160}))
	require.NoError(t, live.Apply(state.Op{Type: state.OpMove, Point: state.Point{X: 140, Y: 70}}))
	requireSamePixels(t, src, live)
}

func TestRestoreKeepsInexactSamples(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	srcHost.down(t, 0.1, 1.0/3)
	srcHost.move(t, 10.7, 20.3)
	srcHost.move(t, 33.3, 41.1)
	srcHost.move(t, 70.9, 12.2)
	srcHost.up(t)

	sync, err := src.SyncState()
	require.NoError(t, err)
	dst, _ := attached(t, 50, 50)
	require.NoError(t, dst.Restore(sync))
	assert.Equal(t, src.PointLog(), dst.PointLog())
	requireSamePixels(t, src, dst)
}

func TestRestoreFromLogOnly(t *testing.T) {
	src, srcHost := attached(t, 300, 150)
	srcHost.down(t, 10, 100)
	srcHost.move(t, 50, 100)
	srcHost.move(t, 90, 60)
	srcHost.up(t)

	sync, err := src.SyncState()
	require.NoError(t, err)
	sync.Strokes = nil

	dst, _ := attached(t, 50, 50)
	require.NoError(t, dst.Restore(sync))
	assert.Equal(t, src.PointLog(), dst.PointLog())

	sync.Log = state.PointLog{{Marker: state.MarkEnd}}
	assert.ErrorIs(t, dst.Restore(sync), state.ErrMalformedLog)
}

func TestApplyUnknownOp(t *testing.T) {
	p, _ := attached(t, 10, 10)
	assert.Error(t, p.Apply(state.Op{Type: "bogus"}))
}
