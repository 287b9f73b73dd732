package gpu

import (
	"fmt"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/math"
)

/**
 * @brief Per-operation counters of a memory backend. Useful for asserting
 * on resource usage and binding discipline without a device attached.
 */
type MemoryBackendStats struct {
	TextureCreates      uint32
	TextureDestroys     uint32
	FramebufferCreates  uint32
	FramebufferDestroys uint32
	Binds               uint32
	Blits               uint32
	Reads               uint32
	Clears              uint32
}

type memoryTexture struct {
	width, height uint32
	format        PixelFormat
	pixels        []uint8
}

type memoryFramebuffer struct {
	attachment TextureHandle
}

/**
 * @brief MemoryBackend implements the Backend capability set on plain
 * host memory. It backs headless rendering and the test suite, standing
 * in for a device-bound implementation.
 */
type MemoryBackend struct {
	textures     map[TextureHandle]*memoryTexture
	framebuffers map[FramebufferHandle]*memoryFramebuffer
	readBinding  FramebufferHandle
	drawBinding  FramebufferHandle
	multisampled bool
	nextTexture  TextureHandle
	nextFB       FramebufferHandle

	Stats MemoryBackendStats
}

/**
 * @brief Creates a memory backend whose default framebuffer is a
 * width x height RGBA8 surface. Both targets start bound to it.
 */
func NewMemoryBackend(width, height uint32, multisampled bool) *MemoryBackend {
	mb := &MemoryBackend{
		textures:     make(map[TextureHandle]*memoryTexture),
		framebuffers: make(map[FramebufferHandle]*memoryFramebuffer),
		multisampled: multisampled,
		nextTexture:  1,
		nextFB:       1,
	}
	// The default framebuffer owns its own backing texture, reachable
	// only through handle 0.
	mb.textures[NoTexture] = &memoryTexture{
		width:  width,
		height: height,
		format: PixelFormatRGBA8,
		pixels: make([]uint8, width*height*4),
	}
	mb.framebuffers[DefaultFramebuffer] = &memoryFramebuffer{attachment: NoTexture}
	return mb
}

func (mb *MemoryBackend) TextureCreate(width, height uint32, format PixelFormat) (TextureHandle, error) {
	if width == 0 || height == 0 {
		return NoTexture, fmt.Errorf("texture dimensions must be positive, got %dx%d", width, height)
	}
	if format.BytesPerPixel() == 0 {
		return NoTexture, fmt.Errorf("unsupported pixel format %d", format)
	}
	handle := mb.nextTexture
	mb.nextTexture++
	mb.textures[handle] = &memoryTexture{
		width:  width,
		height: height,
		format: format,
		pixels: make([]uint8, width*height*format.BytesPerPixel()),
	}
	mb.Stats.TextureCreates++
	return handle, nil
}

func (mb *MemoryBackend) TextureDestroy(handle TextureHandle) {
	if handle == NoTexture {
		return
	}
	delete(mb.textures, handle)
	mb.Stats.TextureDestroys++
}

func (mb *MemoryBackend) FramebufferCreate() (FramebufferHandle, error) {
	handle := mb.nextFB
	mb.nextFB++
	mb.framebuffers[handle] = &memoryFramebuffer{attachment: NoTexture}
	mb.Stats.FramebufferCreates++
	return handle, nil
}

func (mb *MemoryBackend) FramebufferDestroy(handle FramebufferHandle) {
	if handle == DefaultFramebuffer {
		return
	}
	delete(mb.framebuffers, handle)
	mb.Stats.FramebufferDestroys++
}

func (mb *MemoryBackend) FramebufferAttachTexture(fb FramebufferHandle, texture TextureHandle) error {
	f, ok := mb.framebuffers[fb]
	if !ok {
		return fmt.Errorf("unknown framebuffer %d", fb)
	}
	if fb == DefaultFramebuffer {
		return fmt.Errorf("the default framebuffer attachment cannot be changed")
	}
	if texture != NoTexture {
		if _, ok := mb.textures[texture]; !ok {
			return fmt.Errorf("unknown texture %d", texture)
		}
	}
	f.attachment = texture
	return nil
}

func (mb *MemoryBackend) FramebufferBind(target FramebufferTarget, fb FramebufferHandle) {
	if _, ok := mb.framebuffers[fb]; !ok {
		core.LogWarn("binding unknown framebuffer %d", fb)
	}
	switch target {
	case FramebufferTargetRead:
		mb.readBinding = fb
	case FramebufferTargetDraw:
		mb.drawBinding = fb
	}
	mb.Stats.Binds++
}

func (mb *MemoryBackend) FramebufferBound(target FramebufferTarget) FramebufferHandle {
	if target == FramebufferTargetRead {
		return mb.readBinding
	}
	return mb.drawBinding
}

// surface resolves a framebuffer handle to its backing texture. The default
// framebuffer resolves to its private surface.
func (mb *MemoryBackend) surface(fb FramebufferHandle) (*memoryTexture, error) {
	f, ok := mb.framebuffers[fb]
	if !ok {
		return nil, fmt.Errorf("unknown framebuffer %d", fb)
	}
	if fb != DefaultFramebuffer && f.attachment == NoTexture {
		return nil, fmt.Errorf("framebuffer %d has no color attachment", fb)
	}
	tex, ok := mb.textures[f.attachment]
	if !ok {
		return nil, fmt.Errorf("framebuffer %d attachment %d is gone", fb, f.attachment)
	}
	return tex, nil
}

func (mb *MemoryBackend) FramebufferBlit(src, dst Rect, filter Filter) error {
	from, err := mb.surface(mb.readBinding)
	if err != nil {
		return err
	}
	to, err := mb.surface(mb.drawBinding)
	if err != nil {
		return err
	}
	// Nearest sampling only; a linear filter degrades to nearest here.
	for y := int32(0); y < dst.Height; y++ {
		for x := int32(0); x < dst.Width; x++ {
			sx := src.X + x*src.Width/dst.Width
			sy := src.Y + y*src.Height/dst.Height
			sx = math.Clamp(sx, 0, int32(from.width)-1)
			sy = math.Clamp(sy, 0, int32(from.height)-1)
			dx := math.Clamp(dst.X+x, 0, int32(to.width)-1)
			dy := math.Clamp(dst.Y+y, 0, int32(to.height)-1)
			si := (uint32(sy)*from.width + uint32(sx)) * 4
			di := (uint32(dy)*to.width + uint32(dx)) * 4
			copy(to.pixels[di:di+4], from.pixels[si:si+4])
		}
	}
	mb.Stats.Blits++
	return nil
}

func (mb *MemoryBackend) ReadPixels(rect Rect, format PixelFormat, dst []uint8) error {
	from, err := mb.surface(mb.readBinding)
	if err != nil {
		return err
	}
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("unsupported pixel format %d", format)
	}
	need := uint32(rect.Width) * uint32(rect.Height) * bpp
	if uint32(len(dst)) < need {
		return fmt.Errorf("readback destination too small: need %d bytes, have %d", need, len(dst))
	}
	for y := int32(0); y < rect.Height; y++ {
		for x := int32(0); x < rect.Width; x++ {
			sx := math.Clamp(rect.X+x, 0, int32(from.width)-1)
			sy := math.Clamp(rect.Y+y, 0, int32(from.height)-1)
			si := (uint32(sy)*from.width + uint32(sx)) * 4
			di := (uint32(y)*uint32(rect.Width) + uint32(x)) * bpp
			copy(dst[di:di+bpp], from.pixels[si:si+4])
		}
	}
	mb.Stats.Reads++
	return nil
}

func (mb *MemoryBackend) Multisampled() bool {
	return mb.multisampled
}

func (mb *MemoryBackend) Clear(color math.Vec4) {
	to, err := mb.surface(mb.drawBinding)
	if err != nil {
		core.LogWarn("clear on invalid draw framebuffer: %v", err)
		return
	}
	r := uint8(math.Clamp(color.X, 0, 1)*255.0 + 0.5)
	g := uint8(math.Clamp(color.Y, 0, 1)*255.0 + 0.5)
	b := uint8(math.Clamp(color.Z, 0, 1)*255.0 + 0.5)
	a := uint8(math.Clamp(color.W, 0, 1)*255.0 + 0.5)
	for i := 0; i < len(to.pixels); i += 4 {
		to.pixels[i+0] = r
		to.pixels[i+1] = g
		to.pixels[i+2] = b
		to.pixels[i+3] = a
	}
	mb.Stats.Clears++
}
