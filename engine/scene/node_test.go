package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/math"
)

// recordingNode counts lifecycle hook invocations and can be told to
// fail its init.
type recordingNode struct {
	NodeCommon
	owned    []Node
	initErr  error
	inits    int
	updates  int
	draws    int
	uninits  int
	teardown *[]string
}

func newRecordingNode(owned ...Node) *recordingNode {
	return &recordingNode{NodeCommon: newNodeCommon("recording"), owned: owned}
}

func (r *recordingNode) Type() NodeType   { return NodeTypeNone }
func (r *recordingNode) children() []Node { return r.owned }

func (r *recordingNode) init() error {
	r.inits++
	if r.initErr != nil {
		return r.initErr
	}
	for _, child := range r.owned {
		if err := InitNode(child, r.rc); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingNode) update(t float64) error {
	r.updates++
	for _, child := range r.owned {
		if err := UpdateNode(child, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingNode) draw() error {
	r.draws++
	for _, child := range r.owned {
		if err := DrawNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingNode) uninit() {
	r.uninits++
	if r.teardown != nil {
		*r.teardown = append(*r.teardown, r.Label)
	}
}

func testContext() *RenderContext {
	return NewRenderContext(gpu.NewMemoryBackend(8, 8, false))
}

func TestInitNodeIsIdempotent(t *testing.T) {
	n := newRecordingNode()
	rc := testContext()

	require.NoError(t, InitNode(n, rc))
	require.NoError(t, InitNode(n, rc))

	assert.Equal(t, 1, n.inits)
	assert.Equal(t, NodeStateInitialized, n.State)
}

func TestUpdateBeforeInitIsRejected(t *testing.T) {
	n := newRecordingNode()
	err := UpdateNode(n, 0)
	assert.ErrorIs(t, err, core.ErrInvalidLifecycle)
	assert.Zero(t, n.updates)
}

func TestDrawBeforeUpdateIsRejected(t *testing.T) {
	n := newRecordingNode()
	require.NoError(t, InitNode(n, testContext()))

	err := DrawNode(n)
	assert.ErrorIs(t, err, core.ErrInvalidLifecycle)
	assert.Zero(t, n.draws)

	require.NoError(t, UpdateNode(n, 0))
	require.NoError(t, DrawNode(n))
	assert.Equal(t, 1, n.draws)
}

func TestInitFailurePropagatesWithoutRollback(t *testing.T) {
	boom := errors.New("boom")
	healthy := newRecordingNode()
	failing := newRecordingNode()
	failing.initErr = boom
	parent := newRecordingNode(healthy, failing)

	err := InitNode(parent, testContext())
	assert.ErrorIs(t, err, boom)

	// Fail-fast: the parent never transitions, the healthy sibling
	// stays initialized for the later uninit pass.
	assert.Equal(t, NodeStateUninitialized, parent.State)
	assert.Equal(t, NodeStateInitialized, healthy.State)

	// The graph-wide uninit pass reaches the initialized sibling even
	// through the uninitialized parent.
	UninitNode(parent)
	assert.Equal(t, 0, parent.uninits)
	assert.Equal(t, 1, healthy.uninits)
	assert.Equal(t, NodeStateDestroyed, healthy.State)
}

func TestUninitOrderingParentBeforeChild(t *testing.T) {
	var order []string
	child := newRecordingNode()
	child.Label = "child"
	child.teardown = &order
	parent := newRecordingNode(child)
	parent.Label = "parent"
	parent.teardown = &order

	require.NoError(t, InitNode(parent, testContext()))
	UninitNode(parent)

	assert.Equal(t, []string{"parent", "child"}, order)
	assert.Equal(t, NodeStateDestroyed, parent.State)
	assert.Equal(t, NodeStateDestroyed, child.State)
}

func TestUninitTwiceIsHarmless(t *testing.T) {
	n := newRecordingNode()
	require.NoError(t, InitNode(n, testContext()))

	UninitNode(n)
	UninitNode(n)
	assert.Equal(t, 1, n.uninits)
}

func TestInitAfterDestroyIsRejected(t *testing.T) {
	n := newRecordingNode()
	rc := testContext()
	require.NoError(t, InitNode(n, rc))
	UninitNode(n)

	err := InitNode(n, rc)
	assert.ErrorIs(t, err, core.ErrInvalidLifecycle)
}

func TestSharedReferenceInitializedOnce(t *testing.T) {
	shared := newRecordingNode()
	left := newRecordingNode(shared)
	right := newRecordingNode(shared)
	root := newRecordingNode(left, right)

	require.NoError(t, InitNode(root, testContext()))
	assert.Equal(t, 1, shared.inits)

	UninitNode(root)
	assert.Equal(t, 1, shared.uninits)
}

func TestParentWritesChildMatrices(t *testing.T) {
	fill := NewFill(math.NewVec4(1, 0, 0, 1))
	group := NewGroup(fill)
	require.NoError(t, InitNode(group, testContext()))

	group.ModelView = math.NewMat4Translation(math.NewVec3(1, 2, 3))
	group.Projection = math.NewMat4Perspective(1.0, 1.0, 0.1, 10)
	require.NoError(t, UpdateNode(group, 0))

	assert.Equal(t, group.ModelView, fill.ModelView)
	assert.Equal(t, group.Projection, fill.Projection)
}
