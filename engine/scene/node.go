package scene

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/math"
)

/** @brief Identifies a node variant. The set is closed within this package. */
type NodeType uint8

const (
	NodeTypeNone NodeType = iota
	/** @brief Composes view/projection matrices and can capture frames. */
	NodeTypeCamera
	/** @brief Applies a transform matrix to its child subtree. */
	NodeTypeTransform
	/** @brief Holds an ordered list of sibling children. */
	NodeTypeGroup
	/** @brief A leaf filling the draw target with a constant color. */
	NodeTypeFill
	/** @brief An empty leaf terminating matrix-only transform chains. */
	NodeTypeIdentity
	/** @brief A scalar keyframe of an animation curve. */
	NodeTypeAnimKeyframeScalar
	/** @brief A 3-component keyframe of an animation curve. */
	NodeTypeAnimKeyframeVec3
)

func (nt NodeType) String() string {
	switch nt {
	case NodeTypeCamera:
		return "Camera"
	case NodeTypeTransform:
		return "Transform"
	case NodeTypeGroup:
		return "Group"
	case NodeTypeFill:
		return "Fill"
	case NodeTypeIdentity:
		return "Identity"
	case NodeTypeAnimKeyframeScalar:
		return "AnimKeyframeScalar"
	case NodeTypeAnimKeyframeVec3:
		return "AnimKeyframeVec3"
	}
	return "None"
}

/** @brief The lifecycle state of a node instance. */
type NodeState uint8

const (
	/** @brief Constructed but not yet initialized. */
	NodeStateUninitialized NodeState = iota
	/** @brief Initialized and ready to be updated and drawn. */
	NodeStateInitialized
	/** @brief Torn down. Terminal: a destroyed node is never revived. */
	NodeStateDestroyed
)

/**
 * @brief RenderContext carries the device capability the graph renders
 * through. It is handed to the root init walk and shared, by reference,
 * with every node that issues device calls.
 */
type RenderContext struct {
	Backend gpu.Backend
}

func NewRenderContext(backend gpu.Backend) *RenderContext {
	return &RenderContext{Backend: backend}
}

/**
 * @brief NodeCommon is the header every node variant embeds: identity,
 * lifecycle state and the two matrices its parent writes during update.
 */
type NodeCommon struct {
	ID    uuid.UUID
	Label string

	State NodeState
	/** @brief Modelview matrix, written by the parent before this node updates. */
	ModelView math.Mat4
	/** @brief Projection matrix, written by the parent before this node updates. */
	Projection math.Mat4

	rc *RenderContext
	// Set on the first update after init; draw is invalid before then.
	updated        bool
	lastUpdateTime float64
}

func newNodeCommon(label string) NodeCommon {
	return NodeCommon{
		ID:         uuid.New(),
		Label:      label,
		State:      NodeStateUninitialized,
		ModelView:  math.NewMat4Identity(),
		Projection: math.NewMat4Identity(),
	}
}

func (nc *NodeCommon) common() *NodeCommon { return nc }

// Context returns the render context the node was initialized with.
func (nc *NodeCommon) Context() *RenderContext { return nc.rc }

/**
 * @brief Node is the closed polymorphic contract of every graph vertex.
 * The lifecycle hooks are private: callers drive nodes exclusively through
 * InitNode, UpdateNode, DrawNode and UninitNode so that state transitions,
 * idempotency and ordering are enforced in one place.
 */
type Node interface {
	common() *NodeCommon
	Type() NodeType

	// Owned children in declaration order. Non-owning references are
	// excluded: their owner is responsible for their teardown.
	children() []Node

	// One-time setup: device resources, child propagation.
	init() error
	// Per-frame recompute at virtual time t, then recursion into children.
	update(t float64) error
	// Issue device commands using the state computed by the last update.
	draw() error
	// One-time teardown of the node's own resources; child recursion is
	// handled by UninitNode.
	uninit()
}

/**
 * @brief Initializes the node and, recursively, its owned children.
 * Idempotent: re-invoking on an initialized node is a no-op, which also
 * makes shared non-owning references safe to initialize on first
 * encounter without ever double-initializing.
 * A child failure propagates immediately; siblings already initialized
 * are left for the owning graph's uninit pass.
 */
func InitNode(n Node, rc *RenderContext) error {
	if n == nil {
		return nil
	}
	nc := n.common()
	switch nc.State {
	case NodeStateInitialized:
		return nil
	case NodeStateDestroyed:
		return fmt.Errorf("%s node %s: %w: init after destroy", n.Type(), nc.ID, core.ErrInvalidLifecycle)
	}
	if rc == nil || rc.Backend == nil {
		return fmt.Errorf("%s node %s: %w: init requires a render context", n.Type(), nc.ID, core.ErrInvalidLifecycle)
	}
	if err := validateNode(n); err != nil {
		return err
	}
	nc.rc = rc
	if err := n.init(); err != nil {
		return fmt.Errorf("%s node %s: init: %w", n.Type(), nc.ID, err)
	}
	nc.State = NodeStateInitialized
	core.LogDebug("initialized %s node %s", n.Type(), nc.ID)
	return nil
}

/**
 * @brief Recomputes the node's derived state for virtual time t and
 * recurses into its children. Valid only on an initialized node.
 */
func UpdateNode(n Node, t float64) error {
	if n == nil {
		return nil
	}
	nc := n.common()
	if nc.State != NodeStateInitialized {
		return fmt.Errorf("%s node %s: %w: update on state %d", n.Type(), nc.ID, core.ErrInvalidLifecycle, nc.State)
	}
	if err := n.update(t); err != nil {
		return err
	}
	nc.updated = true
	nc.lastUpdateTime = t
	return nil
}

/**
 * @brief Issues the node's draw commands. Valid only after at least one
 * update; drawing an un-updated node reports ErrInvalidLifecycle rather
 * than rendering from stale matrices.
 */
func DrawNode(n Node) error {
	if n == nil {
		return nil
	}
	nc := n.common()
	if nc.State != NodeStateInitialized || !nc.updated {
		return fmt.Errorf("%s node %s: %w: draw before update", n.Type(), nc.ID, core.ErrInvalidLifecycle)
	}
	return n.draw()
}

/**
 * @brief Releases the node's resources, then recurses into its owned
 * children, so a parent's resources referencing a child's are gone before
 * the child's own teardown. Must be called at most once per initialized
 * node; the owning graph guarantees single invocation.
 *
 * A node whose init never ran (or failed) is walked through to its
 * children anyway: siblings initialized before a fail-fast abort are
 * cleaned up by this pass.
 */
func UninitNode(n Node) {
	if n == nil {
		return
	}
	nc := n.common()
	if nc.State == NodeStateDestroyed {
		return
	}
	if nc.State == NodeStateInitialized {
		n.uninit()
		nc.State = NodeStateDestroyed
		nc.updated = false
		core.LogDebug("destroyed %s node %s", n.Type(), nc.ID)
	}
	for _, child := range n.children() {
		UninitNode(child)
	}
}
