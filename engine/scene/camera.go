package scene

import (
	"fmt"
	"io"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/math"
)

// captureState exists only on capture-enabled cameras; a nil pointer
// means capture was never configured and no device resources are held.
type captureState struct {
	sink          io.Writer
	width, height int32
	buf           []uint8
	texture       gpu.TextureHandle
	framebuffer   gpu.FramebufferHandle
}

/**
 * @brief Camera composes its eye/center/up state and field of view into
 * view and projection matrices, injects them into its child and updates
 * it. Each of eye/center/up can be routed through a transform node, and
 * the field of view can be keyframe-animated.
 *
 * With capture configured, every draw also resolves the rendered frame
 * into an off-screen framebuffer, reads it back as RGBA8 and streams the
 * whole buffer to the sink in one write.
 */
type Camera struct {
	NodeCommon
	Child Node

	Eye    math.Vec3
	Center math.Vec3
	Up     math.Vec3
	/** @brief (fov degrees, aspect ratio, near clip, far clip). */
	Perspective math.Vec4

	EyeTransform    *Transform
	CenterTransform *Transform
	UpTransform     *Transform

	/** @brief Optional animation of the field of view. */
	FOVCurve *ScalarCurve

	capture *captureState
}

func NewCamera(child Node) *Camera {
	return &Camera{
		NodeCommon: newNodeCommon("camera"),
		Child:      child,
		Eye:        math.NewVec3(0, 0, 1),
		Center:     math.NewVec3Zero(),
		Up:         math.NewVec3Up(),
	}
}

// SetPerspective sets the projection parameters. fov is in degrees.
func (c *Camera) SetPerspective(fovDegrees, aspect, near, far float32) {
	c.Perspective = math.NewVec4(fovDegrees, aspect, near, far)
}

/**
 * @brief Enables frame capture: after every draw, a width x height RGBA8
 * readback of the rendered frame is written to sink as one contiguous
 * write of exactly width*height*4 bytes. Must be configured before init.
 */
func (c *Camera) ConfigureCapture(sink io.Writer, width, height int32) error {
	if c.State != NodeStateUninitialized {
		return fmt.Errorf("%w: capture must be configured before init", core.ErrInvalidLifecycle)
	}
	if sink == nil || width <= 0 || height <= 0 {
		return fmt.Errorf("%w: capture requires a sink and positive dimensions, got %dx%d",
			core.ErrSchemaViolation, width, height)
	}
	c.capture = &captureState{sink: sink, width: width, height: height}
	return nil
}

func (c *Camera) Type() NodeType { return NodeTypeCamera }

func (c *Camera) children() []Node {
	nodes := make([]Node, 0, 4)
	if c.Child != nil {
		nodes = append(nodes, c.Child)
	}
	// The vector transforms may be shared references; UninitNode's
	// destroyed-state guard keeps a second visit harmless.
	for _, tr := range []*Transform{c.EyeTransform, c.CenterTransform, c.UpTransform} {
		if tr != nil {
			nodes = append(nodes, tr)
		}
	}
	return nodes
}

func (c *Camera) init() error {
	if err := InitNode(c.Child, c.rc); err != nil {
		return err
	}
	for _, tr := range []*Transform{c.EyeTransform, c.CenterTransform, c.UpTransform} {
		if tr == nil {
			continue
		}
		if err := InitNode(tr, c.rc); err != nil {
			return err
		}
	}

	if c.capture == nil {
		return nil
	}

	backend := c.rc.Backend
	c.capture.buf = make([]uint8, c.capture.width*c.capture.height*4)

	texture, err := backend.TextureCreate(uint32(c.capture.width), uint32(c.capture.height), gpu.PixelFormatRGBA8)
	if err != nil {
		return fmt.Errorf("%w: capture texture: %v", core.ErrResourceAllocation, err)
	}
	framebuffer, err := backend.FramebufferCreate()
	if err != nil {
		backend.TextureDestroy(texture)
		return fmt.Errorf("%w: capture framebuffer: %v", core.ErrResourceAllocation, err)
	}
	if err := backend.FramebufferAttachTexture(framebuffer, texture); err != nil {
		backend.FramebufferDestroy(framebuffer)
		backend.TextureDestroy(texture)
		return fmt.Errorf("%w: capture attachment: %v", core.ErrResourceAllocation, err)
	}
	c.capture.texture = texture
	c.capture.framebuffer = framebuffer
	core.LogDebug("camera %s captures %dx%d frames", c.ID, c.capture.width, c.capture.height)
	return nil
}

// transformed routes a base vector through an optional transform node,
// updating the transform at time t first.
func (c *Camera) transformed(base math.Vec3, tr *Transform, t float64) (math.Vec3, error) {
	if tr == nil {
		return base, nil
	}
	if err := UpdateNode(tr, t); err != nil {
		return base, err
	}
	return base.ToVec4(1.0).Transform(tr.LastMatrix()).ToVec3(), nil
}

func (c *Camera) update(t float64) error {
	eye, err := c.transformed(c.Eye, c.EyeTransform, t)
	if err != nil {
		return err
	}
	center, err := c.transformed(c.Center, c.CenterTransform, t)
	if err != nil {
		return err
	}
	up, err := c.transformed(c.Up, c.UpTransform, t)
	if err != nil {
		return err
	}

	view := math.NewMat4LookAt(eye, center, up)
	if c.capture != nil {
		// Captured frames are vertically flipped for the destination
		// buffer's coordinate convention. Fixed, not configurable.
		view.Data[5] = -view.Data[5]
	}

	fov := c.Perspective.X
	if !c.FOVCurve.Empty() {
		fov, err = c.FOVCurve.Interpolate(t)
		if err != nil {
			return err
		}
	}
	projection := math.NewMat4Perspective(
		fov*math.K_DEG2RAD_MULTIPLIER,
		c.Perspective.Y,
		c.Perspective.Z,
		c.Perspective.W,
	)

	child := c.Child.common()
	child.ModelView = view
	child.Projection = projection
	return UpdateNode(c.Child, t)
}

func (c *Camera) draw() error {
	if err := DrawNode(c.Child); err != nil {
		return err
	}
	if c.capture == nil {
		return nil
	}

	backend := c.rc.Backend
	rect := gpu.NewRect(0, 0, c.capture.width, c.capture.height)

	if backend.Multisampled() {
		prevRead := backend.FramebufferBound(gpu.FramebufferTargetRead)
		prevDraw := backend.FramebufferBound(gpu.FramebufferTargetDraw)
		// The prior bindings are restored no matter which path exits.
		defer func() {
			backend.FramebufferBind(gpu.FramebufferTargetRead, prevRead)
			backend.FramebufferBind(gpu.FramebufferTargetDraw, prevDraw)
		}()

		backend.FramebufferBind(gpu.FramebufferTargetRead, prevDraw)
		backend.FramebufferBind(gpu.FramebufferTargetDraw, c.capture.framebuffer)
		if err := backend.FramebufferBlit(rect, rect, gpu.FilterNearest); err != nil {
			return err
		}
		backend.FramebufferBind(gpu.FramebufferTargetRead, c.capture.framebuffer)

		if err := c.captureFrame(rect); err != nil {
			return err
		}
		return nil
	}

	return c.captureFrame(rect)
}

// captureFrame reads the bound read framebuffer into the capture buffer
// and streams it to the sink. A short write is an error, never retried.
func (c *Camera) captureFrame(rect gpu.Rect) error {
	backend := c.rc.Backend
	if err := backend.ReadPixels(rect, gpu.PixelFormatRGBA8, c.capture.buf); err != nil {
		return err
	}
	core.LogDebug("write %dx%d buffer to capture sink", c.capture.width, c.capture.height)
	n, err := c.capture.sink.Write(c.capture.buf)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkWrite, err)
	}
	if n != len(c.capture.buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes", core.ErrSinkWrite, n, len(c.capture.buf))
	}
	return nil
}

func (c *Camera) uninit() {
	if c.capture == nil {
		return
	}
	backend := c.rc.Backend
	if err := backend.FramebufferAttachTexture(c.capture.framebuffer, gpu.NoTexture); err != nil {
		core.LogWarn("camera %s: detaching capture texture: %v", c.ID, err)
	}
	backend.FramebufferDestroy(c.capture.framebuffer)
	backend.TextureDestroy(c.capture.texture)
	c.capture.buf = nil
}

func init() {
	registerParams(NodeTypeCamera, []ParamSpec{
		{Name: "child", Type: ParamTypeNode, Flags: ParamFlagRequired, NodeValue: func(n Node) Node {
			return n.(*Camera).Child
		}},
		{Name: "eye", Type: ParamTypeVec3, Default: math.NewVec3(0, 0, 1), Value: func(n Node) interface{} {
			return n.(*Camera).Eye
		}},
		{Name: "center", Type: ParamTypeVec3, Value: func(n Node) interface{} {
			return n.(*Camera).Center
		}},
		{Name: "up", Type: ParamTypeVec3, Default: math.NewVec3Up(), Value: func(n Node) interface{} {
			return n.(*Camera).Up
		}},
		{Name: "perspective", Type: ParamTypeVec4, Value: func(n Node) interface{} {
			return n.(*Camera).Perspective
		}},
		{Name: "eye_transform", Type: ParamTypeNode, NodeTypes: []NodeType{NodeTypeTransform}, NodeValue: func(n Node) Node {
			if tr := n.(*Camera).EyeTransform; tr != nil {
				return tr
			}
			return nil
		}},
		{Name: "center_transform", Type: ParamTypeNode, NodeTypes: []NodeType{NodeTypeTransform}, NodeValue: func(n Node) Node {
			if tr := n.(*Camera).CenterTransform; tr != nil {
				return tr
			}
			return nil
		}},
		{Name: "up_transform", Type: ParamTypeNode, NodeTypes: []NodeType{NodeTypeTransform}, NodeValue: func(n Node) Node {
			if tr := n.(*Camera).UpTransform; tr != nil {
				return tr
			}
			return nil
		}},
		{Name: "fov_animkf", Type: ParamTypeNodeList, NodeTypes: []NodeType{NodeTypeAnimKeyframeScalar}, NodeListValue: func(n Node) []Node {
			kfs := n.(*Camera).FOVCurve.Keyframes()
			nodes := make([]Node, len(kfs))
			for i, kf := range kfs {
				nodes[i] = kf
			}
			return nodes
		}},
	})
}
