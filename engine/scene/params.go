package scene

import (
	"fmt"

	"github.com/spaghettifunk/scena/engine/core"
)

/** @brief The semantic type of a declared node parameter. */
type ParamType uint8

const (
	ParamTypeInt ParamType = iota
	ParamTypeFloat
	ParamTypeVec3
	ParamTypeVec4
	ParamTypeMat4
	/** @brief A single node-valued field. */
	ParamTypeNode
	/** @brief A packed list of node references. */
	ParamTypeNodeList
)

type ParamFlag uint8

const (
	/** @brief The field must be populated before init. */
	ParamFlagRequired ParamFlag = 1 << iota
)

/**
 * @brief ParamSpec describes one declared field of a node type: its name,
 * semantic type, constraints and a typed accessor. Raw struct offsets are
 * deliberately absent; reflection happens through closures.
 *
 * Specs are registered once per node type at package init and are
 * read-only for the life of the process.
 */
type ParamSpec struct {
	Name  string
	Type  ParamType
	Flags ParamFlag
	/** @brief Default value, informational; constructors apply it. */
	Default interface{}
	/**
	 * @brief Node types legal for a node or node-list field. An empty
	 * whitelist accepts any node type.
	 */
	NodeTypes []NodeType

	/** @brief Accessor for scalar and vector fields. */
	Value func(n Node) interface{}
	/** @brief Accessor for a node field. Returns nil when unset. */
	NodeValue func(n Node) Node
	/** @brief Accessor for a node-list field. */
	NodeListValue func(n Node) []Node
}

var paramRegistry = map[NodeType][]ParamSpec{}

// registerParams installs the descriptor table of a node type. Called once
// per type from package init; a second registration is a programmer error.
func registerParams(nt NodeType, specs []ParamSpec) {
	if _, ok := paramRegistry[nt]; ok {
		panic(fmt.Sprintf("parameters for node type %s registered twice", nt))
	}
	paramRegistry[nt] = specs
}

/**
 * @brief ParamsFor exposes the ordered descriptor list of a node type.
 * The returned slice must be treated as read-only.
 */
func ParamsFor(nt NodeType) []ParamSpec {
	return paramRegistry[nt]
}

func (ps *ParamSpec) allowsNodeType(nt NodeType) bool {
	if len(ps.NodeTypes) == 0 {
		return true
	}
	for _, allowed := range ps.NodeTypes {
		if allowed == nt {
			return true
		}
	}
	return false
}

// validateNode checks a node instance against its descriptor table:
// required fields populated, node references within their whitelists.
func validateNode(n Node) error {
	nt := n.Type()
	for i := range paramRegistry[nt] {
		ps := &paramRegistry[nt][i]
		switch ps.Type {
		case ParamTypeNode:
			child := ps.NodeValue(n)
			if child == nil {
				if ps.Flags&ParamFlagRequired != 0 {
					return fmt.Errorf("%w: %s.%s is required", core.ErrSchemaViolation, nt, ps.Name)
				}
				continue
			}
			if !ps.allowsNodeType(child.Type()) {
				return fmt.Errorf("%w: %s.%s does not accept a %s node",
					core.ErrSchemaViolation, nt, ps.Name, child.Type())
			}
		case ParamTypeNodeList:
			list := ps.NodeListValue(n)
			if len(list) == 0 && ps.Flags&ParamFlagRequired != 0 {
				return fmt.Errorf("%w: %s.%s is required", core.ErrSchemaViolation, nt, ps.Name)
			}
			for _, child := range list {
				if child == nil {
					return fmt.Errorf("%w: %s.%s holds a nil entry", core.ErrSchemaViolation, nt, ps.Name)
				}
				if !ps.allowsNodeType(child.Type()) {
					return fmt.Errorf("%w: %s.%s does not accept a %s node",
						core.ErrSchemaViolation, nt, ps.Name, child.Type())
				}
			}
		default:
			if ps.Flags&ParamFlagRequired != 0 && ps.Value != nil && ps.Value(n) == nil {
				return fmt.Errorf("%w: %s.%s is required", core.ErrSchemaViolation, nt, ps.Name)
			}
		}
	}
	return nil
}
