package scene

/**
 * @brief Identity is the empty leaf: it renders nothing and leaves its
 * matrices untouched. It terminates transform chains that exist only to
 * produce a matrix, such as a camera's eye/center/up transforms.
 */
type Identity struct {
	NodeCommon
}

func NewIdentity() *Identity {
	return &Identity{NodeCommon: newNodeCommon("identity")}
}

func (id *Identity) Type() NodeType         { return NodeTypeIdentity }
func (id *Identity) children() []Node       { return nil }
func (id *Identity) init() error            { return nil }
func (id *Identity) update(t float64) error { return nil }
func (id *Identity) draw() error            { return nil }
func (id *Identity) uninit()                {}

func init() {
	registerParams(NodeTypeIdentity, nil)
}
