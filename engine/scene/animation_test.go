package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/math"
)

func scalarCurve(t *testing.T, points ...float64) *ScalarCurve {
	t.Helper()
	kfs := make([]*AnimKeyframeScalar, 0, len(points)/2)
	for i := 0; i+1 < len(points); i += 2 {
		kfs = append(kfs, NewAnimKeyframeScalar(points[i], float32(points[i+1])))
	}
	curve, err := NewScalarCurve(kfs...)
	require.NoError(t, err)
	return curve
}

func TestScalarCurveClampsOutsideRange(t *testing.T) {
	curve := scalarCurve(t, 1, 10, 2, 20, 4, 40)

	for _, tm := range []float64{-5, 0, 1} {
		v, err := curve.Interpolate(tm)
		require.NoError(t, err)
		assert.Equal(t, float32(10), v, "t=%f must clamp to the first keyframe", tm)
	}
	for _, tm := range []float64{4, 5, 100} {
		v, err := curve.Interpolate(tm)
		require.NoError(t, err)
		assert.Equal(t, float32(40), v, "t=%f must clamp to the last keyframe", tm)
	}
}

func TestScalarCurveLinearBlend(t *testing.T) {
	curve := scalarCurve(t, 0, 0, 2, 10)

	v, err := curve.Interpolate(1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-6)

	v, err = curve.Interpolate(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, v, 1e-6)
}

func TestScalarCurveCursorMatchesFreshQueries(t *testing.T) {
	times := []float64{-1, 0, 0.25, 0.5, 1.1, 2.9, 3, 3.5, 4.2, 7, 9, 12}

	cached := scalarCurve(t, 0, 0, 1, 5, 3, -2, 4, 8, 10, 1)
	for _, tm := range times {
		fresh := scalarCurve(t, 0, 0, 1, 5, 3, -2, 4, 8, 10, 1)
		want, err := fresh.Interpolate(tm)
		require.NoError(t, err)
		got, err := cached.Interpolate(tm)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cursor caching changed the result at t=%f", tm)
	}
}

func TestScalarCurveBackwardsQueriesStayCorrect(t *testing.T) {
	curve := scalarCurve(t, 0, 0, 2, 10, 4, 20)

	v, err := curve.Interpolate(3)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, v, 1e-6)

	// Going back in time is permitted and still correct.
	v, err = curve.Interpolate(1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-6)
}

func TestScalarCurveSingleKeyframeIsConstant(t *testing.T) {
	curve := scalarCurve(t, 2, 7)
	for _, tm := range []float64{0, 2, 5} {
		v, err := curve.Interpolate(tm)
		require.NoError(t, err)
		assert.Equal(t, float32(7), v)
	}
}

func TestScalarCurveEmptyReportsError(t *testing.T) {
	curve, err := NewScalarCurve()
	require.NoError(t, err)
	assert.True(t, curve.Empty())

	_, err = curve.Interpolate(0)
	assert.ErrorIs(t, err, core.ErrEmptyCurve)

	var nilCurve *ScalarCurve
	assert.True(t, nilCurve.Empty())
}

func TestScalarCurveRejectsUnorderedKeyframes(t *testing.T) {
	_, err := NewScalarCurve(
		NewAnimKeyframeScalar(1, 0),
		NewAnimKeyframeScalar(1, 5),
	)
	assert.ErrorIs(t, err, core.ErrSchemaViolation)

	_, err = NewScalarCurve(
		NewAnimKeyframeScalar(2, 0),
		NewAnimKeyframeScalar(1, 5),
	)
	assert.ErrorIs(t, err, core.ErrSchemaViolation)
}

func TestScalarCurveEasing(t *testing.T) {
	in := NewAnimKeyframeScalar(0, 0)
	out := NewAnimKeyframeScalar(1, 1)
	out.Easing = EasingQuadIn
	curve, err := NewScalarCurve(in, out)
	require.NoError(t, err)

	v, err := curve.Interpolate(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-6)
}

func TestEasingEndpointsAreFixed(t *testing.T) {
	kinds := []EasingKind{
		EasingLinear, EasingQuadIn, EasingQuadOut, EasingQuadInOut,
		EasingCubicIn, EasingCubicOut, EasingCubicInOut,
	}
	for _, kind := range kinds {
		assert.InDelta(t, 0.0, kind.apply(0), 1e-9)
		assert.InDelta(t, 1.0, kind.apply(1), 1e-9)
	}
}

func TestVec3CurveInterpolation(t *testing.T) {
	curve, err := NewVec3Curve(
		NewAnimKeyframeVec3(0, math.NewVec3(0, 0, 0)),
		NewAnimKeyframeVec3(2, math.NewVec3(2, 4, -6)),
	)
	require.NoError(t, err)

	v, err := curve.Interpolate(1)
	require.NoError(t, err)
	assert.True(t, v.Compare(math.NewVec3(1, 2, -3), 1e-6))

	v, err = curve.Interpolate(10)
	require.NoError(t, err)
	assert.True(t, v.Compare(math.NewVec3(2, 4, -6), 1e-6))
}
