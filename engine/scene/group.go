package scene

/**
 * @brief Group holds an ordered list of children that all inherit the
 * group's matrices unchanged. Children are updated and drawn in
 * declaration order.
 */
type Group struct {
	NodeCommon
	Children []Node
}

func NewGroup(children ...Node) *Group {
	return &Group{
		NodeCommon: newNodeCommon("group"),
		Children:   children,
	}
}

func (g *Group) Type() NodeType   { return NodeTypeGroup }
func (g *Group) children() []Node { return g.Children }

func (g *Group) init() error {
	for _, child := range g.Children {
		if err := InitNode(child, g.rc); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) update(t float64) error {
	for _, child := range g.Children {
		nc := child.common()
		nc.ModelView = g.ModelView
		nc.Projection = g.Projection
		if err := UpdateNode(child, t); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) draw() error {
	for _, child := range g.Children {
		if err := DrawNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) uninit() {}

func init() {
	registerParams(NodeTypeGroup, []ParamSpec{
		{Name: "children", Type: ParamTypeNodeList, NodeListValue: func(n Node) []Node {
			return n.(*Group).Children
		}},
	})
}
