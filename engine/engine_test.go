package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/math"
	"github.com/spaghettifunk/scena/engine/scene"
)

func demoGraph(t *testing.T, sink *bytes.Buffer) scene.Node {
	t.Helper()
	camera := scene.NewCamera(scene.NewFill(math.NewVec4(0, 0, 1, 1)))
	camera.SetPerspective(45, 1.0, 0.1, 100)
	if sink != nil {
		require.NoError(t, camera.ConfigureCapture(sink, 8, 8))
	}
	return camera
}

func TestEngineLifecycle(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	assert.Equal(t, EngineStageUninitialized, e.Stage())

	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())

	require.NoError(t, e.Step(0))
	require.NoError(t, e.Step(1.0/60))

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShutDown, e.Stage())
}

func TestEngineRejectsStepBeforeInit(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Step(0), core.ErrInvalidLifecycle)
}

func TestEngineRejectsDoubleInit(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	assert.ErrorIs(t, e.Initialize(), core.ErrInvalidLifecycle)
	require.NoError(t, e.Shutdown())
}

func TestEngineStepAfterShutdownFails(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Shutdown())

	assert.ErrorIs(t, e.Step(0), core.ErrInvalidLifecycle)
}

func TestEngineShutdownIsIdempotent(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	require.NoError(t, e.Shutdown())
	require.NoError(t, e.Shutdown())
}

func TestEngineRequiresRootAndBackend(t *testing.T) {
	_, err := New(nil, gpu.NewMemoryBackend(8, 8, false))
	assert.Error(t, err)

	_, err = New(demoGraph(t, nil), nil)
	assert.Error(t, err)
}

func TestRenderRangeCapturesEveryFrame(t *testing.T) {
	var sink bytes.Buffer
	e, err := New(demoGraph(t, &sink), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	// 1 second at 10 fps renders frames t=0.0 .. t=1.0 inclusive.
	require.NoError(t, e.RenderRange(1.0, 10))
	assert.Equal(t, 11*8*8*4, sink.Len())

	require.NoError(t, e.Shutdown())
}

func TestRenderRangeRejectsBadFrameRate(t *testing.T) {
	e, err := New(demoGraph(t, nil), gpu.NewMemoryBackend(8, 8, false))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	assert.Error(t, e.RenderRange(1.0, 0))
	require.NoError(t, e.Shutdown())
}
