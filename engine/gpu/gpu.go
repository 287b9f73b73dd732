package gpu

import (
	"github.com/spaghettifunk/scena/engine/math"
)

/** @brief Supported pixel formats for textures and readback. */
type PixelFormat uint8

const (
	/** @brief 8 bits per channel red/green/blue/alpha. */
	PixelFormatRGBA8 PixelFormat = iota
)

// BytesPerPixel returns the per-pixel byte size of the format.
func (f PixelFormat) BytesPerPixel() uint32 {
	switch f {
	case PixelFormatRGBA8:
		return 4
	}
	return 0
}

/** @brief Filtering mode used by framebuffer blit operations. */
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

/** @brief A framebuffer binding point. */
type FramebufferTarget uint8

const (
	/** @brief The binding pixels are read from. */
	FramebufferTargetRead FramebufferTarget = iota
	/** @brief The binding draw commands render into. */
	FramebufferTargetDraw
)

// Rect is a pixel-space rectangle with the origin in the lower-left corner.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

func NewRect(x, y, width, height int32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

/** @brief An opaque handle to a device texture. */
type TextureHandle uint32

/** @brief An opaque handle to a device framebuffer. */
type FramebufferHandle uint32

/**
 * @brief The handle of the default framebuffer, bound to both targets when
 * a backend is created.
 */
const DefaultFramebuffer FramebufferHandle = 0

/** @brief The nil texture handle; attaching it detaches the current texture. */
const NoTexture TextureHandle = 0

/**
 * @brief Backend is the capability set the scene graph renders through.
 *
 * The framebuffer bindings are genuine shared mutable state of the backend.
 * Operations on this interface never change a binding behind the caller's
 * back: only FramebufferBind mutates them, and any caller that rebinds is
 * responsible for restoring the previous binding before returning. Callers
 * query the active bindings through FramebufferBound.
 */
type Backend interface {
	/** @brief Creates a width x height texture of the given format. */
	TextureCreate(width, height uint32, format PixelFormat) (TextureHandle, error)
	/** @brief Releases the texture and its device memory. */
	TextureDestroy(handle TextureHandle)
	/** @brief Creates an empty framebuffer with no attachment. */
	FramebufferCreate() (FramebufferHandle, error)
	/** @brief Releases the framebuffer. Its attachment is left alive. */
	FramebufferDestroy(handle FramebufferHandle)
	/**
	 * @brief Attaches the texture as the framebuffer's color attachment.
	 * Attaching NoTexture detaches the current attachment.
	 */
	FramebufferAttachTexture(fb FramebufferHandle, texture TextureHandle) error
	/** @brief Binds the framebuffer to the given target. */
	FramebufferBind(target FramebufferTarget, fb FramebufferHandle)
	/** @brief Returns the framebuffer currently bound to the given target. */
	FramebufferBound(target FramebufferTarget) FramebufferHandle
	/**
	 * @brief Copies src from the bound read framebuffer into dst of the
	 * bound draw framebuffer, resolving multisampling if present.
	 */
	FramebufferBlit(src, dst Rect, filter Filter) error
	/**
	 * @brief Reads rect from the bound read framebuffer into dst, row-major
	 * bottom-to-top. dst must hold rect.Width*rect.Height pixels of the
	 * requested format.
	 */
	ReadPixels(rect Rect, format PixelFormat, dst []uint8) error
	/** @brief Reports whether the active render target is multisampled. */
	Multisampled() bool
	/** @brief Fills the bound draw framebuffer with the given color. */
	Clear(color math.Vec4)
}
