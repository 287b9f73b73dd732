package engine

import (
	"fmt"

	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/engine/gpu"
	"github.com/spaghettifunk/scena/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing the scene graph
	EngineStageInitializing
	// Engine initialization is complete and frames can be stepped
	EngineStageInitialized
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released the graph and cannot be reused
	EngineStageShutDown
)

/**
 * @brief Engine drives one scene graph through its lifecycle: a single
 * init pass, any number of (update, draw) frames at caller-paced virtual
 * times, and a single uninit pass over the whole graph.
 *
 * Everything runs on the caller's goroutine; the engine performs no
 * internal scheduling.
 */
type Engine struct {
	currentStage Stage
	root         scene.Node
	renderCtx    *scene.RenderContext
	clock        *core.Clock
	lastTime     float64
	lastElapsed  float64
}

func New(root scene.Node, backend gpu.Backend) (*Engine, error) {
	if root == nil {
		return nil, fmt.Errorf("engine requires a root node")
	}
	if backend == nil {
		return nil, fmt.Errorf("engine requires a render backend")
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		root:         root,
		renderCtx:    scene.NewRenderContext(backend),
		clock:        core.NewClock(),
	}, nil
}

// Initialize walks the graph once, allocating every node's resources.
// A failure leaves the graph partially initialized; Shutdown cleans up
// whatever did come up.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("%w: engine already initialized", core.ErrInvalidLifecycle)
	}
	e.currentStage = EngineStageInitializing

	if err := core.MetricsInitialize(); err != nil {
		return err
	}
	if err := scene.InitNode(e.root, e.renderCtx); err != nil {
		core.LogError("scene graph init failed: %v", err)
		return err
	}

	e.currentStage = EngineStageInitialized
	e.clock.Start()
	core.LogInfo("engine initialized")
	return nil
}

/**
 * @brief Steps one frame at virtual time t: updates the whole graph,
 * then draws it. Pacing and monotonicity of t are the caller's business.
 * A sink write failure during a capture surfaces here without tearing
 * the loop down.
 */
func (e *Engine) Step(t float64) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("%w: step on stage %d", core.ErrInvalidLifecycle, e.currentStage)
	}
	if t < e.lastTime {
		core.LogWarn("virtual time went backwards: %f after %f", t, e.lastTime)
	}
	if err := scene.UpdateNode(e.root, t); err != nil {
		return err
	}
	err := scene.DrawNode(e.root)

	e.clock.Update()
	elapsed := e.clock.ElapsedSeconds()
	core.MetricsUpdate(elapsed - e.lastElapsed)
	e.lastElapsed = elapsed
	e.lastTime = t
	return err
}

/**
 * @brief Renders frames covering [0, duration] seconds at the given
 * frame rate. Convenience wrapper over Step for offline rendering.
 */
func (e *Engine) RenderRange(duration float64, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", fps)
	}
	frames := int(duration*float64(fps)) + 1
	for i := 0; i < frames; i++ {
		if err := e.Step(float64(i) / float64(fps)); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown runs the graph's uninit pass. Safe to call after a failed
// Initialize; calling it twice is a no-op.
func (e *Engine) Shutdown() error {
	switch e.currentStage {
	case EngineStageShutDown, EngineStageShuttingDown:
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	scene.UninitNode(e.root)
	e.clock.Stop()
	e.currentStage = EngineStageShutDown
	core.LogInfo("engine shut down")
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}
