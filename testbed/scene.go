package testbed

import (
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/scena/engine"
	"github.com/spaghettifunk/scena/engine/config"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/math"
	"github.com/spaghettifunk/scena/engine/scene"
)

/**
 * @brief Demo holds a demo scene: an orbiting camera over an animated
 * solid fill, optionally capturing every frame to a file.
 */
type Demo struct {
	Settings *config.Settings

	engine  *engine.Engine
	capture io.WriteCloser
}

func NewDemo(settings *config.Settings) (*Demo, error) {
	d := &Demo{Settings: settings}

	// A fill whose alpha breathes over the scene duration.
	fadeIn := scene.NewAnimKeyframeScalar(0, 0.2)
	peak := scene.NewAnimKeyframeScalar(settings.Duration/2, 1.0)
	peak.Easing = scene.EasingQuadInOut
	fadeOut := scene.NewAnimKeyframeScalar(settings.Duration, 0.2)
	fadeOut.Easing = scene.EasingQuadInOut
	alphaCurve, err := scene.NewScalarCurve(fadeIn, peak, fadeOut)
	if err != nil {
		return nil, err
	}
	fill := scene.NewFill(math.NewVec4(0.1, 0.4, 0.8, 1.0))
	fill.AlphaCurve = alphaCurve

	// The camera's eye swings around the scene on an animated rotation.
	orbitStart := scene.NewAnimKeyframeScalar(0, 0)
	orbitEnd := scene.NewAnimKeyframeScalar(settings.Duration, 360)
	orbitCurve, err := scene.NewScalarCurve(orbitStart, orbitEnd)
	if err != nil {
		return nil, err
	}
	orbit := scene.NewRotate(scene.NewIdentity(), math.NewVec3Up(), 0)
	orbit.AngleCurve = orbitCurve

	camera := scene.NewCamera(scene.NewGroup(fill))
	camera.Eye = math.NewVec3(0, 1, 3)
	camera.EyeTransform = orbit
	camera.SetPerspective(45, float32(settings.Width)/float32(settings.Height), 0.1, 100)

	if settings.Capture.Enabled {
		sink, err := os.Create(settings.Capture.Path)
		if err != nil {
			return nil, fmt.Errorf("opening capture sink: %w", err)
		}
		if err := camera.ConfigureCapture(sink, settings.Capture.Width, settings.Capture.Height); err != nil {
			sink.Close()
			return nil, err
		}
		d.capture = sink
	}

	backend := gpu.NewMemoryBackend(settings.Width, settings.Height, settings.Multisampled)
	eng, err := engine.New(camera, backend)
	if err != nil {
		return nil, err
	}
	d.engine = eng
	return d, nil
}

// Run renders the configured duration, then tears the graph down.
func (d *Demo) Run() error {
	if err := d.engine.Initialize(); err != nil {
		d.engine.Shutdown()
		return err
	}
	renderErr := d.engine.RenderRange(d.Settings.Duration, d.Settings.FrameRate)
	if err := d.engine.Shutdown(); err != nil && renderErr == nil {
		renderErr = err
	}
	if d.capture != nil {
		if err := d.capture.Close(); err != nil && renderErr == nil {
			renderErr = err
		}
	}
	return renderErr
}
