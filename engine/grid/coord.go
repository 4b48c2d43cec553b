package grid

import "fmt"

// Coord addresses one cell of a lattice. For the hex lattice Q and R are
// axial coordinates; for the cube lattice they map to X and Z. Level is the
// vertical layer in both.
type Coord struct {
	Q, R, Level int32
}

func (c Coord) Add(o Coord) Coord {
	return Coord{c.Q + o.Q, c.R + o.R, c.Level + o.Level}
}

func (c Coord) Up() Coord   { return Coord{c.Q, c.R, c.Level + 1} }
func (c Coord) Down() Coord { return Coord{c.Q, c.R, c.Level - 1} }

// Less orders coords bottom-up, then by row, then by column.
func (c Coord) Less(o Coord) bool {
	if c.Level != o.Level {
		return c.Level < o.Level
	}
	if c.R != o.R {
		return c.R < o.R
	}
	return c.Q < o.Q
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.Q, c.R, c.Level)
}

// Bounds is an inclusive coordinate box.
type Bounds struct {
	Min Coord `yaml:"min"`
	Max Coord `yaml:"max"`
}

func (b Bounds) Contains(c Coord) bool {
	return c.Q >= b.Min.Q && c.Q <= b.Max.Q &&
		c.R >= b.Min.R && c.R <= b.Max.R &&
		c.Level >= b.Min.Level && c.Level <= b.Max.Level
}

// CoordSet is an unordered set of coordinates.
type CoordSet map[Coord]struct{}

func NewCoordSet(coords ...Coord) CoordSet {
	s := make(CoordSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

func (s CoordSet) Add(c Coord) { s[c] = struct{}{} }

func (s CoordSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

func (s CoordSet) Len() int { return len(s) }

// Sorted returns the members in Coord.Less order.
func (s CoordSet) Sorted() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}
