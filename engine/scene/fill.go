package scene

import (
	"github.com/spaghettifunk/scena/engine/math"
)

/**
 * @brief Fill is a leaf node that floods the bound draw target with a
 * constant color. The color's alpha may be animated, which is enough to
 * drive fades without a full material system.
 */
type Fill struct {
	NodeCommon
	Color math.Vec4

	/** @brief Optional animation of the alpha component. */
	AlphaCurve *ScalarCurve

	effective math.Vec4
}

func NewFill(color math.Vec4) *Fill {
	return &Fill{
		NodeCommon: newNodeCommon("fill"),
		Color:      color,
		effective:  color,
	}
}

func (f *Fill) Type() NodeType   { return NodeTypeFill }
func (f *Fill) children() []Node { return nil }

func (f *Fill) init() error { return nil }

func (f *Fill) update(t float64) error {
	f.effective = f.Color
	if !f.AlphaCurve.Empty() {
		alpha, err := f.AlphaCurve.Interpolate(t)
		if err != nil {
			return err
		}
		f.effective.W = math.Clamp(alpha, 0, 1)
	}
	return nil
}

func (f *Fill) draw() error {
	f.rc.Backend.Clear(f.effective)
	return nil
}

func (f *Fill) uninit() {}

func init() {
	registerParams(NodeTypeFill, []ParamSpec{
		{Name: "color", Type: ParamTypeVec4, Value: func(n Node) interface{} {
			return n.(*Fill).Color
		}},
		{Name: "alpha_animkf", Type: ParamTypeNodeList, NodeTypes: []NodeType{NodeTypeAnimKeyframeScalar}, NodeListValue: func(n Node) []Node {
			kfs := n.(*Fill).AlphaCurve.Keyframes()
			nodes := make([]Node, len(kfs))
			for i, kf := range kfs {
				nodes[i] = kf
			}
			return nodes
		}},
	})
}
