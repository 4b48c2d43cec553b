package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hungaromakker/battle-tok-sub003/engine/asset"
	"github.com/hungaromakker/battle-tok-sub003/engine/assetlib"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
	"github.com/hungaromakker/battle-tok-sub003/engine/variety"
)

var (
	flagOut       string
	flagCatalog   string
	flagNoCatalog bool
)

const defaultCatalog = "~/.battletok/assets.db"

// Recipe is the editor's export: an outline plus how to turn it into a
// mesh.
type Recipe struct {
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Outline     sdf.Outline       `json:"outline"`
	Extrude     sdf.ExtrudeParams `json:"extrude"`
	Variety     variety.Params    `json:"variety"`
}

var bakeCmd = &cobra.Command{
	Use:   "bake <recipe.json>",
	Short: "Bake an outline recipe into a .btasset",
	Long: `Read a recipe (outline, extrusion method and parameters), mesh it and
write a .btasset. The asset is also recorded in the catalog unless
--no-catalog is given.

Examples:
  battletok bake shield.json
  battletok bake vase.json --out assets/vase.btasset --catalog ./assets.db`,
	Args: cobra.ExactArgs(1),
	RunE: runBake,
}

func init() {
	bakeCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output path (default: recipe name with .btasset)")
	bakeCmd.Flags().StringVar(&flagCatalog, "catalog", defaultCatalog, "Asset catalog database")
	bakeCmd.Flags().BoolVar(&flagNoCatalog, "no-catalog", false, "Do not record the asset in the catalog")
}

// loadRecipe reads a recipe; unset extrusion fields keep their defaults.
func loadRecipe(path string) (Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("read recipe: %w", err)
	}
	r := Recipe{Extrude: sdf.DefaultExtrudeParams()}
	if err := json.Unmarshal(data, &r); err != nil {
		return Recipe{}, fmt.Errorf("parse recipe %s: %w", path, err)
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if r.Category == "" {
		r.Category = "props"
	}
	return r, nil
}

func bakeRecipe(r Recipe) (*asset.Asset, error) {
	m, err := sdf.Extrude(r.Outline, r.Extrude)
	if err != nil {
		return nil, err
	}
	meta := asset.NewMetadata(r.Name, r.Category, string(r.Extrude.Method))
	meta.Description = r.Description
	meta.Tags = r.Tags
	return &asset.Asset{Mesh: m, Metadata: meta, Variety: r.Variety}, nil
}

func runBake(cmd *cobra.Command, args []string) error {
	logger := newLogger("bake")
	r, err := loadRecipe(args[0])
	if err != nil {
		return err
	}
	a, err := bakeRecipe(r)
	if err != nil {
		return fmt.Errorf("bake %s: %w", r.Name, err)
	}

	out := flagOut
	if out == "" {
		out = filepath.Join(filepath.Dir(args[0]), r.Name+".btasset")
	}
	if err := asset.Save(out, a); err != nil {
		return err
	}
	logger.Infof("saved %s: %d vertices, %d triangles", out, len(a.Mesh.Vertices), a.Mesh.TriangleCount())

	if flagNoCatalog {
		return nil
	}
	cat, err := assetlib.Open(flagCatalog)
	if err != nil {
		return err
	}
	defer cat.Close()
	abs, err := filepath.Abs(out)
	if err != nil {
		abs = out
	}
	if err := cat.Put(abs, a); err != nil {
		return err
	}
	logger.Infof("catalogued %s as %s", a.Metadata.Name, a.Metadata.ID)
	return nil
}
