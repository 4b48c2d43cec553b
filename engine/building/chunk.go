package building

import (
	"sort"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
)

// ChunkKey addresses a block of ChunkSize^3 lattice coordinates.
type ChunkKey struct {
	X, Z, Y int32
}

func (k ChunkKey) Less(o ChunkKey) bool {
	if k.Y != o.Y {
		return k.Y < o.Y
	}
	if k.Z != o.Z {
		return k.Z < o.Z
	}
	return k.X < o.X
}

// ChunkIndex buckets occupied coordinates by chunk and tracks which chunks
// need their merged meshes rebuilt.
type ChunkIndex struct {
	size   int32
	chunks map[ChunkKey]grid.CoordSet
	dirty  map[ChunkKey]struct{}
}

func NewChunkIndex(size int32) *ChunkIndex {
	if size < 1 {
		size = 1
	}
	return &ChunkIndex{
		size:   size,
		chunks: make(map[ChunkKey]grid.CoordSet),
		dirty:  make(map[ChunkKey]struct{}),
	}
}

func (ci *ChunkIndex) KeyOf(c grid.Coord) ChunkKey {
	return ChunkKey{
		X: floorDiv(c.Q, ci.size),
		Z: floorDiv(c.R, ci.size),
		Y: floorDiv(c.Level, ci.size),
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (ci *ChunkIndex) Insert(c grid.Coord) {
	k := ci.KeyOf(c)
	set, ok := ci.chunks[k]
	if !ok {
		set = make(grid.CoordSet)
		ci.chunks[k] = set
	}
	set.Add(c)
}

func (ci *ChunkIndex) Remove(c grid.Coord) {
	k := ci.KeyOf(c)
	set, ok := ci.chunks[k]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(ci.chunks, k)
	}
}

// Touch marks the chunks holding c and its neighbours dirty. A change on a
// chunk border alters face culling on the other side as well.
func (ci *ChunkIndex) Touch(c grid.Coord, neighbors []grid.Coord) {
	ci.dirty[ci.KeyOf(c)] = struct{}{}
	for _, n := range neighbors {
		ci.dirty[ci.KeyOf(n)] = struct{}{}
	}
}

func (ci *ChunkIndex) Cells(k ChunkKey) []grid.Coord {
	return ci.chunks[k].Sorted()
}

func (ci *ChunkIndex) DirtyCount() int { return len(ci.dirty) }

// TakeDirty returns the dirty chunks in order and clears the set.
func (ci *ChunkIndex) TakeDirty() []ChunkKey {
	out := make([]ChunkKey, 0, len(ci.dirty))
	for k := range ci.dirty {
		out = append(out, k)
	}
	for k := range ci.dirty {
		delete(ci.dirty, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (ci *ChunkIndex) Len() int { return len(ci.chunks) }
