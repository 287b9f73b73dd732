package scene

import (
	"github.com/spaghettifunk/scena/engine/math"
)

/** @brief The operation a transform node applies to its subtree. */
type TransformKind uint8

const (
	TransformTranslate TransformKind = iota
	TransformScale
	TransformRotate
	TransformRotateQuat
	TransformMatrix
)

func (tk TransformKind) String() string {
	switch tk {
	case TransformTranslate:
		return "translate"
	case TransformScale:
		return "scale"
	case TransformRotate:
		return "rotate"
	case TransformRotateQuat:
		return "rotate-quat"
	case TransformMatrix:
		return "matrix"
	}
	return "unknown"
}

/**
 * @brief Transform owns one child and produces a 4x4 matrix for the
 * current time, composing it with the modelview its own parent wrote
 * before recursing into the child.
 *
 * The vector parameter (translation offset or scale factors) and the
 * rotation angle may each be driven by a keyframe curve; the static
 * field is the fallback when no curve is set.
 */
type Transform struct {
	NodeCommon
	Kind  TransformKind
	Child Node

	/** @brief Translation offset or scale factors, depending on Kind. */
	Vector math.Vec3
	/** @brief Rotation axis for the rotate kind. */
	Axis math.Vec3
	/** @brief Rotation angle in degrees for the rotate kind. */
	Angle float32
	/** @brief Orientation for the rotate-quat kind. */
	Quat math.Quaternion
	/** @brief Raw matrix for the matrix kind. */
	Matrix math.Mat4

	/** @brief Optional animation of Vector. */
	VectorCurve *Vec3Curve
	/** @brief Optional animation of Angle. */
	AngleCurve *ScalarCurve

	lastMatrix math.Mat4
}

func newTransform(kind TransformKind, child Node) *Transform {
	return &Transform{
		NodeCommon: newNodeCommon("transform-" + kind.String()),
		Kind:       kind,
		Child:      child,
		Vector:     math.NewVec3Zero(),
		Axis:       math.NewVec3(0, 0, 1),
		Quat:       math.NewQuatIdentity(),
		Matrix:     math.NewMat4Identity(),
		lastMatrix: math.NewMat4Identity(),
	}
}

/** @brief Creates a transform translating its subtree by offset. */
func NewTranslate(child Node, offset math.Vec3) *Transform {
	tr := newTransform(TransformTranslate, child)
	tr.Vector = offset
	return tr
}

/** @brief Creates a transform scaling its subtree by factors. */
func NewScale(child Node, factors math.Vec3) *Transform {
	tr := newTransform(TransformScale, child)
	tr.Vector = factors
	return tr
}

/** @brief Creates a transform rotating its subtree around axis by angle degrees. */
func NewRotate(child Node, axis math.Vec3, angleDegrees float32) *Transform {
	tr := newTransform(TransformRotate, child)
	tr.Axis = axis
	tr.Angle = angleDegrees
	return tr
}

/** @brief Creates a transform orienting its subtree by the quaternion. */
func NewRotateQuat(child Node, q math.Quaternion) *Transform {
	tr := newTransform(TransformRotateQuat, child)
	tr.Quat = q
	return tr
}

/** @brief Creates a transform applying a raw matrix to its subtree. */
func NewMatrixTransform(child Node, matrix math.Mat4) *Transform {
	tr := newTransform(TransformMatrix, child)
	tr.Matrix = matrix
	return tr
}

func (tr *Transform) Type() NodeType { return NodeTypeTransform }

func (tr *Transform) children() []Node {
	if tr.Child == nil {
		return nil
	}
	return []Node{tr.Child}
}

/**
 * @brief The matrix produced by the most recent update. Identity until
 * the first update. Ancestors such as the camera reuse it to transform
 * their own vectors without recomputing the parameters.
 */
func (tr *Transform) LastMatrix() math.Mat4 {
	return tr.lastMatrix
}

func (tr *Transform) init() error {
	return InitNode(tr.Child, tr.rc)
}

// matrixAt evaluates the transform parameters at time t and builds the
// node's own matrix. Pure given fixed parameters.
func (tr *Transform) matrixAt(t float64) (math.Mat4, error) {
	vector := tr.Vector
	if !tr.VectorCurve.Empty() {
		v, err := tr.VectorCurve.Interpolate(t)
		if err != nil {
			return math.NewMat4Identity(), err
		}
		vector = v
	}
	angle := tr.Angle
	if !tr.AngleCurve.Empty() {
		a, err := tr.AngleCurve.Interpolate(t)
		if err != nil {
			return math.NewMat4Identity(), err
		}
		angle = a
	}

	switch tr.Kind {
	case TransformTranslate:
		return math.NewMat4Translation(vector), nil
	case TransformScale:
		return math.NewMat4Scale(vector), nil
	case TransformRotate:
		return math.NewMat4AxisAngle(tr.Axis, angle*math.K_DEG2RAD_MULTIPLIER), nil
	case TransformRotateQuat:
		return tr.Quat.ToMat4(), nil
	}
	return tr.Matrix, nil
}

func (tr *Transform) update(t float64) error {
	own, err := tr.matrixAt(t)
	if err != nil {
		return err
	}
	tr.lastMatrix = own

	if tr.Child != nil {
		child := tr.Child.common()
		// Row-vector convention: the child's points pass through this
		// transform before the accumulated parent modelview.
		child.ModelView = own.Mul(tr.ModelView)
		child.Projection = tr.Projection
		return UpdateNode(tr.Child, t)
	}
	return nil
}

func (tr *Transform) draw() error {
	return DrawNode(tr.Child)
}

func (tr *Transform) uninit() {}

func init() {
	registerParams(NodeTypeTransform, []ParamSpec{
		{Name: "child", Type: ParamTypeNode, Flags: ParamFlagRequired, NodeValue: func(n Node) Node {
			return n.(*Transform).Child
		}},
		{Name: "vector", Type: ParamTypeVec3, Value: func(n Node) interface{} {
			return n.(*Transform).Vector
		}},
		{Name: "axis", Type: ParamTypeVec3, Default: math.NewVec3(0, 0, 1), Value: func(n Node) interface{} {
			return n.(*Transform).Axis
		}},
		{Name: "angle", Type: ParamTypeFloat, Value: func(n Node) interface{} {
			return n.(*Transform).Angle
		}},
		{Name: "matrix", Type: ParamTypeMat4, Default: math.NewMat4Identity(), Value: func(n Node) interface{} {
			return n.(*Transform).Matrix
		}},
		{Name: "vector_animkf", Type: ParamTypeNodeList, NodeTypes: []NodeType{NodeTypeAnimKeyframeVec3}, NodeListValue: func(n Node) []Node {
			kfs := n.(*Transform).VectorCurve.Keyframes()
			nodes := make([]Node, len(kfs))
			for i, kf := range kfs {
				nodes[i] = kf
			}
			return nodes
		}},
		{Name: "angle_animkf", Type: ParamTypeNodeList, NodeTypes: []NodeType{NodeTypeAnimKeyframeScalar}, NodeListValue: func(n Node) []Node {
			kfs := n.(*Transform).AngleCurve.Keyframes()
			nodes := make([]Node, len(kfs))
			for i, kf := range kfs {
				nodes[i] = kf
			}
			return nodes
		}},
	})
}
