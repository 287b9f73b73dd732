package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scena/engine/math"
)

const matTolerance = 1e-5

func TestTranslateWritesChildModelView(t *testing.T) {
	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	tr := NewTranslate(fill, math.NewVec3(1, 2, 3))
	require.NoError(t, InitNode(tr, testContext()))
	require.NoError(t, UpdateNode(tr, 0))

	want := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	assert.True(t, fill.ModelView.Compare(want, matTolerance))
	assert.True(t, tr.LastMatrix().Compare(want, matTolerance))
}

func TestTransformChainMatchesManualComposition(t *testing.T) {
	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	scale := NewScale(fill, math.NewVec3(2, 2, 2))
	rotate := NewRotate(scale, math.NewVec3(0, 0, 1), 90)
	translate := NewTranslate(rotate, math.NewVec3(5, 0, 0))

	require.NoError(t, InitNode(translate, testContext()))
	require.NoError(t, UpdateNode(translate, 0))

	// Innermost transform is applied to the child's points first.
	want := math.NewMat4Scale(math.NewVec3(2, 2, 2)).
		Mul(math.NewMat4EulerZ(90 * math.K_DEG2RAD_MULTIPLIER)).
		Mul(math.NewMat4Translation(math.NewVec3(5, 0, 0)))
	assert.True(t, fill.ModelView.Compare(want, matTolerance))
}

func TestTransformChainIsStableAcrossRecomputation(t *testing.T) {
	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	inner := NewRotate(fill, math.NewVec3(0, 1, 0), 33)
	outer := NewTranslate(inner, math.NewVec3(-1, 4, 2))
	require.NoError(t, InitNode(outer, testContext()))

	require.NoError(t, UpdateNode(outer, 1.5))
	first := fill.ModelView
	require.NoError(t, UpdateNode(outer, 1.5))

	assert.Equal(t, first, fill.ModelView, "recomputing at the same time must be bit-identical")
}

func TestTransformPropagatesProjection(t *testing.T) {
	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	tr := NewScale(fill, math.NewVec3One())
	require.NoError(t, InitNode(tr, testContext()))

	tr.Projection = math.NewMat4Perspective(1.2, 1.0, 0.1, 50)
	require.NoError(t, UpdateNode(tr, 0))
	assert.Equal(t, tr.Projection, fill.Projection)
}

func TestRotateQuatMatchesAxisAngle(t *testing.T) {
	angle := float32(47) * math.K_DEG2RAD_MULTIPLIER
	q := math.NewQuatFromAxisAngle(math.NewVec3(0, 0, 1), angle, true)

	fillA := NewFill(math.NewVec4(1, 1, 1, 1))
	fillB := NewFill(math.NewVec4(1, 1, 1, 1))
	quatNode := NewRotateQuat(fillA, q)
	axisNode := NewRotate(fillB, math.NewVec3(0, 0, 1), 47)

	rc := testContext()
	require.NoError(t, InitNode(quatNode, rc))
	require.NoError(t, InitNode(axisNode, rc))
	require.NoError(t, UpdateNode(quatNode, 0))
	require.NoError(t, UpdateNode(axisNode, 0))

	assert.True(t, quatNode.LastMatrix().Compare(axisNode.LastMatrix(), matTolerance))
}

func TestMatrixTransformAppliesRawMatrix(t *testing.T) {
	raw := math.NewMat4Translation(math.NewVec3(0, -3, 0))
	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	tr := NewMatrixTransform(fill, raw)
	require.NoError(t, InitNode(tr, testContext()))
	require.NoError(t, UpdateNode(tr, 0))

	assert.True(t, fill.ModelView.Compare(raw, matTolerance))
}

func TestAnimatedTranslation(t *testing.T) {
	curve, err := NewVec3Curve(
		NewAnimKeyframeVec3(0, math.NewVec3Zero()),
		NewAnimKeyframeVec3(2, math.NewVec3(10, 0, 0)),
	)
	require.NoError(t, err)

	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	tr := NewTranslate(fill, math.NewVec3Zero())
	tr.VectorCurve = curve
	require.NoError(t, InitNode(tr, testContext()))

	require.NoError(t, UpdateNode(tr, 1))
	want := math.NewMat4Translation(math.NewVec3(5, 0, 0))
	assert.True(t, tr.LastMatrix().Compare(want, matTolerance))

	require.NoError(t, UpdateNode(tr, 2))
	want = math.NewMat4Translation(math.NewVec3(10, 0, 0))
	assert.True(t, tr.LastMatrix().Compare(want, matTolerance))
}

func TestAnimatedRotationAngle(t *testing.T) {
	curve := scalarCurve(t, 0, 0, 1, 180)

	fill := NewFill(math.NewVec4(1, 1, 1, 1))
	tr := NewRotate(fill, math.NewVec3(0, 0, 1), 0)
	tr.AngleCurve = curve
	require.NoError(t, InitNode(tr, testContext()))
	require.NoError(t, UpdateNode(tr, 0.5))

	want := math.NewMat4EulerZ(90 * math.K_DEG2RAD_MULTIPLIER)
	assert.True(t, tr.LastMatrix().Compare(want, matTolerance))
}
