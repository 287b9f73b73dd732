package scene

import (
	"fmt"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/math"
)

/** @brief The easing applied when blending into a keyframe. */
type EasingKind uint8

const (
	EasingLinear EasingKind = iota
	EasingQuadIn
	EasingQuadOut
	EasingQuadInOut
	EasingCubicIn
	EasingCubicOut
	EasingCubicInOut
)

// apply maps a linear ratio in [0,1] through the easing function.
func (e EasingKind) apply(x float64) float64 {
	switch e {
	case EasingQuadIn:
		return x * x
	case EasingQuadOut:
		return x * (2 - x)
	case EasingQuadInOut:
		if x < 0.5 {
			return 2 * x * x
		}
		return -1 + (4-2*x)*x
	case EasingCubicIn:
		return x * x * x
	case EasingCubicOut:
		y := x - 1
		return y*y*y + 1
	case EasingCubicInOut:
		if x < 0.5 {
			return 4 * x * x * x
		}
		y := 2*x - 2
		return 0.5*y*y*y + 1
	}
	return x
}

/**
 * @brief A scalar keyframe: a value pinned to a point on the virtual
 * timeline. Keyframes are graph nodes so animated fields can reference
 * them through node-list parameters.
 */
type AnimKeyframeScalar struct {
	NodeCommon
	Time   float64
	Value  float32
	Easing EasingKind
}

func NewAnimKeyframeScalar(time float64, value float32) *AnimKeyframeScalar {
	return &AnimKeyframeScalar{
		NodeCommon: newNodeCommon("animkeyframe-scalar"),
		Time:       time,
		Value:      value,
		Easing:     EasingLinear,
	}
}

func (k *AnimKeyframeScalar) Type() NodeType   { return NodeTypeAnimKeyframeScalar }
func (k *AnimKeyframeScalar) children() []Node { return nil }
func (k *AnimKeyframeScalar) init() error      { return nil }
func (k *AnimKeyframeScalar) update(t float64) error {
	return nil
}
func (k *AnimKeyframeScalar) draw() error { return nil }
func (k *AnimKeyframeScalar) uninit()     {}

/** @brief A 3-component keyframe, used by animated vector parameters. */
type AnimKeyframeVec3 struct {
	NodeCommon
	Time   float64
	Value  math.Vec3
	Easing EasingKind
}

func NewAnimKeyframeVec3(time float64, value math.Vec3) *AnimKeyframeVec3 {
	return &AnimKeyframeVec3{
		NodeCommon: newNodeCommon("animkeyframe-vec3"),
		Time:       time,
		Value:      value,
		Easing:     EasingLinear,
	}
}

func (k *AnimKeyframeVec3) Type() NodeType   { return NodeTypeAnimKeyframeVec3 }
func (k *AnimKeyframeVec3) children() []Node { return nil }
func (k *AnimKeyframeVec3) init() error      { return nil }
func (k *AnimKeyframeVec3) update(t float64) error {
	return nil
}
func (k *AnimKeyframeVec3) draw() error { return nil }
func (k *AnimKeyframeVec3) uninit()     {}

func init() {
	registerParams(NodeTypeAnimKeyframeScalar, []ParamSpec{
		{Name: "time", Type: ParamTypeFloat, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeScalar).Time
		}},
		{Name: "value", Type: ParamTypeFloat, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeScalar).Value
		}},
		{Name: "easing", Type: ParamTypeInt, Default: EasingLinear, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeScalar).Easing
		}},
	})
	registerParams(NodeTypeAnimKeyframeVec3, []ParamSpec{
		{Name: "time", Type: ParamTypeFloat, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeVec3).Time
		}},
		{Name: "value", Type: ParamTypeVec3, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeVec3).Value
		}},
		{Name: "easing", Type: ParamTypeInt, Default: EasingLinear, Value: func(n Node) interface{} {
			return n.(*AnimKeyframeVec3).Easing
		}},
	})
}

/**
 * @brief ScalarCurve is an ordered run of scalar keyframes plus the
 * mutable cursor of the animated field that owns it. The cursor tracks
 * the active keyframe window across queries, so a monotonically
 * increasing time sequence costs O(1) amortized per query. Querying
 * backwards in time stays correct, it just rescans from the start.
 *
 * A curve is private state of one animated field and must not be shared.
 */
type ScalarCurve struct {
	keyframes []*AnimKeyframeScalar
	cursor    int
}

/**
 * @brief Builds a curve from keyframes ordered by strictly increasing
 * timestamp. Ordering is validated here once and assumed on every query.
 */
func NewScalarCurve(keyframes ...*AnimKeyframeScalar) (*ScalarCurve, error) {
	for i := 1; i < len(keyframes); i++ {
		if keyframes[i].Time <= keyframes[i-1].Time {
			return nil, fmt.Errorf("%w: keyframe %d time %f does not increase over %f",
				core.ErrSchemaViolation, i, keyframes[i].Time, keyframes[i-1].Time)
		}
	}
	return &ScalarCurve{keyframes: keyframes}, nil
}

func (c *ScalarCurve) Empty() bool {
	return c == nil || len(c.keyframes) == 0
}

func (c *ScalarCurve) Keyframes() []*AnimKeyframeScalar {
	if c == nil {
		return nil
	}
	return c.keyframes
}

// window advances the cursor to the bracketing pair for t and returns its
// left index. Callers guarantee at least two keyframes.
func (c *ScalarCurve) window(t float64) int {
	last := len(c.keyframes) - 2
	i := math.Clamp(c.cursor, 0, last)
	if t < c.keyframes[i].Time {
		i = 0
	}
	for i < last && t > c.keyframes[i+1].Time {
		i++
	}
	c.cursor = i
	return i
}

/**
 * @brief Interpolates the curve at virtual time t. Outside the keyframe
 * range the boundary value is returned unchanged; there is no
 * extrapolation. An empty curve reports ErrEmptyCurve.
 */
func (c *ScalarCurve) Interpolate(t float64) (float32, error) {
	if c.Empty() {
		return 0, core.ErrEmptyCurve
	}
	kfs := c.keyframes
	if len(kfs) == 1 || t <= kfs[0].Time {
		return kfs[0].Value, nil
	}
	if t >= kfs[len(kfs)-1].Time {
		return kfs[len(kfs)-1].Value, nil
	}
	i := c.window(t)
	kf0, kf1 := kfs[i], kfs[i+1]
	ratio := kf1.Easing.apply((t - kf0.Time) / (kf1.Time - kf0.Time))
	return kf0.Value + (kf1.Value-kf0.Value)*float32(ratio), nil
}

/** @brief Vec3Curve is the 3-component counterpart of ScalarCurve. */
type Vec3Curve struct {
	keyframes []*AnimKeyframeVec3
	cursor    int
}

func NewVec3Curve(keyframes ...*AnimKeyframeVec3) (*Vec3Curve, error) {
	for i := 1; i < len(keyframes); i++ {
		if keyframes[i].Time <= keyframes[i-1].Time {
			return nil, fmt.Errorf("%w: keyframe %d time %f does not increase over %f",
				core.ErrSchemaViolation, i, keyframes[i].Time, keyframes[i-1].Time)
		}
	}
	return &Vec3Curve{keyframes: keyframes}, nil
}

func (c *Vec3Curve) Empty() bool {
	return c == nil || len(c.keyframes) == 0
}

func (c *Vec3Curve) Keyframes() []*AnimKeyframeVec3 {
	if c == nil {
		return nil
	}
	return c.keyframes
}

func (c *Vec3Curve) window(t float64) int {
	last := len(c.keyframes) - 2
	i := math.Clamp(c.cursor, 0, last)
	if t < c.keyframes[i].Time {
		i = 0
	}
	for i < last && t > c.keyframes[i+1].Time {
		i++
	}
	c.cursor = i
	return i
}

func (c *Vec3Curve) Interpolate(t float64) (math.Vec3, error) {
	if c.Empty() {
		return math.NewVec3Zero(), core.ErrEmptyCurve
	}
	kfs := c.keyframes
	if len(kfs) == 1 || t <= kfs[0].Time {
		return kfs[0].Value, nil
	}
	if t >= kfs[len(kfs)-1].Time {
		return kfs[len(kfs)-1].Value, nil
	}
	i := c.window(t)
	kf0, kf1 := kfs[i], kfs[i+1]
	ratio := float32(kf1.Easing.apply((t - kf0.Time) / (kf1.Time - kf0.Time)))
	return kf0.Value.Add(kf1.Value.Sub(kf0.Value).MulScalar(ratio)), nil
}
