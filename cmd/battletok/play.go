package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	battletok "github.com/hungaromakker/battle-tok-sub003"
	"github.com/hungaromakker/battle-tok-sub003/engine/building"
	"github.com/hungaromakker/battle-tok-sub003/engine/render"
	"github.com/hungaromakker/battle-tok-sub003/engine/render/gpu"
)

var (
	flagWidth  int
	flagHeight int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open a window and play",
	Long: `Controls:
  WASD / Space / Shift  move
  Tab                   capture the mouse for looking around
  Left click            fire
  Right click           place the selected block
  Middle click          demolish the block under the crosshair
  1-4                   select material
  Z / X / C             prism / slab / pillar
  Escape                quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagWidth, "width", 1280, "Window width")
	playCmd.Flags().IntVar(&flagHeight, "height", 720, "Window height")
}

var shapeKeys = map[glfw.Key]building.Shape{
	glfw.KeyZ: building.ShapePrism,
	glfw.KeyX: building.ShapeSlab,
	glfw.KeyC: building.ShapePillar,
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger("play")
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	scene, err := battletok.NewScene(cfg, logger)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(flagWidth, flagHeight, "Battle Tök", nil, nil)
	if err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer window.Destroy()

	ctx, err := gpu.NewContext(window)
	if err != nil {
		logger.Errorf("gpu init failed: %v", err)
		return err
	}
	defer ctx.Release()

	renderer, err := gpu.NewRenderer(ctx)
	if err != nil {
		logger.Errorf("renderer init failed: %v", err)
		return err
	}
	defer renderer.Release()
	for _, p := range []gpu.RenderPass{gpu.NewSDFPass(), gpu.NewMeshPass(), gpu.NewParticlePass()} {
		if err := renderer.Add(p); err != nil {
			logger.Errorf("%v", err)
			return err
		}
	}

	cam := render.NewCamera()
	w, h := ctx.Size()
	cam.Aspect = float32(w) / float32(h)

	captured := false
	var lastX, lastY float64
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if err := ctx.Resize(width, height); err != nil {
			logger.Errorf("resize: %v", err)
			return
		}
		if height > 0 {
			cam.Aspect = float32(width) / float32(height)
		}
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if captured {
			cam.Look(float32(x-lastX), float32(y-lastY))
		}
		lastX, lastY = x, y
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch {
		case key == glfw.KeyEscape:
			w.SetShouldClose(true)
		case key == glfw.KeyTab:
			captured = !captured
			if captured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
			lastX, lastY = w.GetCursorPos()
		case key >= glfw.Key1 && key <= glfw.Key9:
			if scene.SelectMaterial(int(key - glfw.Key1)) {
				logger.Infof("material: %s", cfg.Building.Materials[key-glfw.Key1].Name)
			}
		default:
			if s, ok := shapeKeys[key]; ok && scene.SelectShape(s) {
				logger.Infof("shape: %s", s)
			}
		}
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		origin, dir := cam.Position, cam.Forward()
		switch button {
		case glfw.MouseButtonLeft:
			scene.Fire(origin, dir, 0)
		case glfw.MouseButtonRight:
			if c, ok := scene.TryPlace(origin, dir); ok {
				logger.Debugf("placed at %v", c)
			}
		case glfw.MouseButtonMiddle:
			if hit, ok := scene.Pick(origin, dir, cfg.Building.MaxPlaceDistance); ok {
				scene.Destroy(hit.Coord)
			}
		}
	})

	last := glfw.GetTime()
	titleTimer := float32(0)
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := min(float32(now-last), 0.1)
		last = now

		cam.Move(axis(window, glfw.KeyW, glfw.KeyS), axis(window, glfw.KeyD, glfw.KeyA), axis(window, glfw.KeySpace, glfw.KeyLeftShift), dt)
		scene.Update(dt)
		if err := renderer.Draw(scene.Frame(cam)); err != nil {
			logger.Errorf("draw: %v", err)
			return err
		}

		titleTimer += dt
		if titleTimer >= 1 {
			titleTimer = 0
			st := scene.Stats()
			window.SetTitle(fmt.Sprintf("Battle Tök - %d cells, %d falling, %d debris", st.Cells, st.FallingPrisms, st.Debris))
		}
	}
	logger.Infof("%s", scene.Stats())
	return nil
}

func axis(w *glfw.Window, pos, neg glfw.Key) float32 {
	var v float32
	if w.GetKey(pos) == glfw.Press {
		v++
	}
	if w.GetKey(neg) == glfw.Press {
		v--
	}
	return v
}
