// battletok runs the Battle Tök sandbox and its asset tools.
//
// Usage:
//
//	battletok play                 - Open a window and play
//	battletok simulate             - Run the world headless and print stats
//	battletok bake <recipe.json>   - Turn an outline recipe into a .btasset
//	battletok inspect <file>       - Print a .btasset header and metadata
//	battletok library [category]   - List catalogued assets
//
// Global flags:
//
//	--config <path>  - Config file (default: search ~/.battletok, ./configs, embedded)
//	--debug          - Enable debug logging
//	--seed <value>   - Override the config seed
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	battletok "github.com/hungaromakker/battle-tok-sub003"
)

var (
	flagConfig string
	flagDebug  bool
	flagSeed   int64
)

func init() {
	// glfw and the GPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "battletok",
	Short: "Battle Tök - destructible building sandbox",
	Long: `Battle Tök is a hex-prism building and siege sandbox.

Available commands:
  play      - Open a window and play
  simulate  - Run the world headless for a number of frames
  bake      - Bake an outline recipe into a .btasset
  inspect   - Show the header and metadata of a .btasset
  library   - List the asset catalog

Examples:
  battletok play --debug
  battletok simulate --frames 600 --fire 5
  battletok bake shield.json --out assets/shield.btasset
  battletok library props`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(bakeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(libraryCmd)
}

func newLogger(prefix string) battletok.Logger {
	return battletok.NewDefaultLogger(prefix, flagDebug)
}

// loadConfig applies the global flags on top of the loaded config.
func loadConfig(logger battletok.Logger) (battletok.Config, error) {
	cfg, source, err := battletok.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	logger.Infof("config: %s (seed %d)", source, cfg.Seed)
	return cfg, nil
}
