package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	battletok "github.com/hungaromakker/battle-tok-sub003"
)

var (
	flagFrames    int
	flagFPS       int
	flagFireEvery float32
	flagReport    int
	flagProfile   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the world headless and print stats",
	Long: `Step the scene without a window. A cannon at the origin fires at the
nearest structure on a fixed cadence so destruction and collapse paths run.

Examples:
  battletok simulate --frames 600
  battletok simulate --frames 3600 --fire 2 --report 600`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagFrames, "frames", 600, "Number of frames to simulate")
	simulateCmd.Flags().IntVar(&flagFPS, "fps", 60, "Fixed tick rate")
	simulateCmd.Flags().Float32Var(&flagFireEvery, "fire", 1, "Seconds between cannon shots (0 = never)")
	simulateCmd.Flags().IntVar(&flagReport, "report", 120, "Print stats every N frames (0 = only at the end)")
	simulateCmd.Flags().BoolVar(&flagProfile, "profile", false, "Print per-phase update timings")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger("simulate")
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	scene, err := battletok.NewScene(cfg, logger)
	if err != nil {
		return err
	}
	var prof *battletok.Profiler
	if flagProfile {
		prof = battletok.NewProfiler()
		scene.SetProfiler(prof)
	}
	if flagFPS <= 0 {
		flagFPS = 60
	}
	dt := 1 / float32(flagFPS)

	muzzle := mgl32.Vec3{0, 2, 0}
	var fireTimer float32
	start := time.Now()
	for i := 1; i <= flagFrames; i++ {
		if flagFireEvery > 0 {
			fireTimer += dt
			if fireTimer >= flagFireEvery {
				fireTimer = 0
				if target, ok := nearestCell(scene, muzzle); ok {
					scene.Fire(muzzle, aim(muzzle, target, cfg.Projectile.Speed, cfg.Physics.Gravity.Y()), 0)
				}
			}
		}
		scene.Update(dt)
		if flagReport > 0 && i%flagReport == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), scene.Stats())
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), scene.Stats())
	if prof != nil {
		fmt.Fprint(cmd.OutOrStdout(), prof)
	}
	logger.Infof("simulated %d frames in %s", flagFrames, time.Since(start).Round(time.Millisecond))
	return nil
}

func nearestCell(scene *battletok.Scene, from mgl32.Vec3) (mgl32.Vec3, bool) {
	g := scene.Grid()
	best, found := float32(math.MaxFloat32), false
	var target mgl32.Vec3
	for _, c := range g.Coords() {
		p := g.Lattice.Center(c)
		if d := p.Sub(from).Len(); d < best {
			best, target, found = d, p, true
		}
	}
	return target, found
}

// aim returns a launch direction that lands on target under gravity,
// taking the flatter of the two solutions. Out-of-range targets get a 45
// degree shot.
func aim(from, target mgl32.Vec3, speed, gravity float32) mgl32.Vec3 {
	d := target.Sub(from)
	flat := mgl32.Vec2{d.X(), d.Z()}
	x := flat.Len()
	if x == 0 {
		return d.Normalize()
	}
	g := float64(-gravity)
	v2 := float64(speed * speed)
	disc := v2*v2 - g*(g*float64(x*x)+2*float64(d.Y())*v2)
	angle := math.Pi / 4
	if disc >= 0 && g > 0 {
		angle = math.Atan((v2 - math.Sqrt(disc)) / (g * float64(x)))
	}
	h := flat.Normalize()
	cos, sin := float32(math.Cos(angle)), float32(math.Sin(angle))
	return mgl32.Vec3{h.X() * cos, sin, h.Y() * cos}
}
