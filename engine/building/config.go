package building

import (
	"strings"

	"github.com/hungaromakker/battle-tok-sub003/engine/variety"
)

// Shape selects the geometry placed into a cell.
type Shape uint8

const (
	ShapePrism  Shape = iota // fills the cell
	ShapeSlab                // lower half of the cell
	ShapePillar              // narrowed footprint, full height
	shapeCount
)

var shapeNames = [shapeCount]string{"prism", "slab", "pillar"}

func (s Shape) String() string {
	if s < shapeCount {
		return shapeNames[s]
	}
	return "unknown"
}

// Full reports whether the shape occupies the whole cell, which lets
// neighbouring faces be culled.
func (s Shape) Full() bool { return s == ShapePrism }

func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return Shape(i), true
		}
	}
	return 0, false
}

type Material struct {
	Name  string     `yaml:"name"`
	Color [4]float32 `yaml:"color"`
}

type Config struct {
	MaxPlaceDistance float32        `yaml:"max_place_distance"`
	TerrainStep      float32        `yaml:"terrain_step"`     // ray march step against terrain
	PhysicsInterval  float32        `yaml:"physics_interval"` // seconds between structural checks
	MergeInterval    float32        `yaml:"merge_interval"`   // seconds between mesh merges
	ChunkSize        int32          `yaml:"chunk_size"`       // cells per chunk edge
	Materials        []Material     `yaml:"materials"`
	Variety          variety.Params `yaml:"variety"`
}

func DefaultConfig() Config {
	return Config{
		MaxPlaceDistance: 64,
		TerrainStep:      0.25,
		PhysicsInterval:  0.5,
		MergeInterval:    0.25,
		ChunkSize:        8,
		Materials: []Material{
			{Name: "stone", Color: [4]float32{0.55, 0.55, 0.58, 1}},
			{Name: "wood", Color: [4]float32{0.52, 0.36, 0.2, 1}},
			{Name: "brick", Color: [4]float32{0.62, 0.28, 0.22, 1}},
			{Name: "sandstone", Color: [4]float32{0.82, 0.72, 0.5, 1}},
		},
		Variety: variety.Params{Seed: 1, ColorJitter: 0.04},
	}
}
