package grid

// HasSupport reports whether the occupied cell at c reaches an anchor
// through a chain of adjacent occupied cells. It is recomputed from grid
// state on every call.
func HasSupport(g *Grid, c Coord) bool {
	if !g.Occupied(c) {
		return false
	}
	visited := NewCoordSet(c)
	queue := []Coord{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if g.IsAnchor(cur) {
			return true
		}
		for _, n := range g.Lattice.Neighbors(cur) {
			if visited.Has(n) || !g.Occupied(n) {
				continue
			}
			visited.Add(n)
			queue = append(queue, n)
		}
	}
	return false
}

// FindUnsupportedCascade returns every cell that loses support once removed
// is vacated. removed is treated as empty whether or not it is still in the
// grid, and is never part of the result. The grid is not modified.
func FindUnsupportedCascade(g *Grid, removed Coord) CoordSet {
	exclude := NewCoordSet(removed)
	return findUnsupported(g, g.Lattice.Neighbors(removed), exclude)
}

// FindUnsupported checks the components containing each seed and returns
// the members of those that reach no anchor.
func FindUnsupported(g *Grid, seeds []Coord) CoordSet {
	return findUnsupported(g, seeds, nil)
}

func findUnsupported(g *Grid, seeds []Coord, exclude CoordSet) CoordSet {
	result := make(CoordSet)
	classified := make(CoordSet)

	for _, seed := range seeds {
		if exclude.Has(seed) || classified.Has(seed) || !g.Occupied(seed) {
			continue
		}
		members, anchored := component(g, seed, exclude)
		for _, m := range members {
			classified.Add(m)
			if !anchored {
				result.Add(m)
			}
		}
	}
	return result
}

// component flood-fills the occupied cells connected to start.
func component(g *Grid, start Coord, exclude CoordSet) ([]Coord, bool) {
	visited := NewCoordSet(start)
	queue := []Coord{start}
	var members []Coord
	anchored := false

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)
		if !anchored && g.IsAnchor(cur) {
			anchored = true
		}
		for _, n := range g.Lattice.Neighbors(cur) {
			if visited.Has(n) || exclude.Has(n) || !g.Occupied(n) {
				continue
			}
			visited.Add(n)
			queue = append(queue, n)
		}
	}
	return members, anchored
}
