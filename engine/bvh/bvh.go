package bvh

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

// NodeSize is the packed size of a Node.
const NodeSize = 64

// Matches WGSL BVHNode
// struct BVHNode {
//    aabb_min : vec4<f32>; (16)
//    aabb_max : vec4<f32>; (16)
//    left : i32; (4)
//    right : i32; (4)
//    leaf_first : i32; (4)
//    leaf_count : i32; (4)
//    padding : i32[2]; (8)
// }; -> 64 bytes
type Node struct {
	Min       mgl32.Vec3
	Max       mgl32.Vec3
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

func (n *Node) IsLeaf() bool { return n.LeafCount > 0 }

func (n *Node) ToBytes() []byte {
	buf := make([]byte, NodeSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:4], math.Float32bits(n.Min.X()))
	le.PutUint32(buf[4:8], math.Float32bits(n.Min.Y()))
	le.PutUint32(buf[8:12], math.Float32bits(n.Min.Z()))
	le.PutUint32(buf[16:20], math.Float32bits(n.Max.X()))
	le.PutUint32(buf[20:24], math.Float32bits(n.Max.Y()))
	le.PutUint32(buf[24:28], math.Float32bits(n.Max.Z()))

	le.PutUint32(buf[32:36], uint32(n.Left))
	le.PutUint32(buf[36:40], uint32(n.Right))
	le.PutUint32(buf[40:44], uint32(n.LeafFirst))
	le.PutUint32(buf[44:48], uint32(n.LeafCount))
	return buf
}

type item struct {
	min, max mgl32.Vec3
	centroid mgl32.Vec3
	index    int
}

// Tree is a median-split BVH with one box per leaf. Node 0 is the root.
type Tree struct {
	Nodes []Node
}

// Build creates a tree over boxes; leaves refer to positions in boxes.
func Build(boxes [][2]mgl32.Vec3) *Tree {
	t := &Tree{}
	if len(boxes) == 0 {
		return t
	}
	items := make([]item, len(boxes))
	for i, b := range boxes {
		items[i] = item{min: b[0], max: b[1], centroid: b[0].Add(b[1]).Mul(0.5), index: i}
	}
	t.build(items)
	return t
}

func (t *Tree) build(items []item) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1, LeafFirst: -1})

	inf := float32(math.Inf(1))
	minB := mgl32.Vec3{inf, inf, inf}
	maxB := mgl32.Vec3{-inf, -inf, -inf}
	for _, it := range items {
		for a := 0; a < 3; a++ {
			minB[a] = min(minB[a], it.min[a])
			maxB[a] = max(maxB[a], it.max[a])
		}
	}
	t.Nodes[idx].Min = minB
	t.Nodes[idx].Max = maxB

	if len(items) == 1 {
		t.Nodes[idx].LeafFirst = int32(items[0].index)
		t.Nodes[idx].LeafCount = 1
		return idx
	}

	extent := maxB.Sub(minB)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})

	mid := len(items) / 2
	left := t.build(items[:mid])
	right := t.build(items[mid:])
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx
}

// Bytes packs the nodes for a storage buffer. An empty tree packs as one
// zeroed node so the binding is never empty.
func (t *Tree) Bytes() []byte {
	if len(t.Nodes) == 0 {
		return make([]byte, NodeSize)
	}
	out := make([]byte, 0, len(t.Nodes)*NodeSize)
	for i := range t.Nodes {
		out = append(out, t.Nodes[i].ToBytes()...)
	}
	return out
}

// Traverse visits every leaf whose box the ray enters within maxDist, in
// no particular order. fn returning false stops the walk.
func (t *Tree) Traverse(origin, dir mgl32.Vec3, maxDist float32, fn func(index int, tEnter float32) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		n := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		tEnter, ok := physics.RayAABB(origin, dir, n.Min, n.Max)
		if !ok || tEnter > maxDist {
			continue
		}
		if n.IsLeaf() {
			if !fn(int(n.LeafFirst), tEnter) {
				return
			}
			continue
		}
		stack = append(stack, n.Right, n.Left)
	}
}

// QueryAABB returns the leaf indices whose boxes overlap [lo, hi].
func (t *Tree) QueryAABB(lo, hi mgl32.Vec3) []int {
	if len(t.Nodes) == 0 {
		return nil
	}
	var out []int
	stack := []int32{0}
	for len(stack) > 0 {
		n := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !physics.AABBOverlap(lo, hi, n.Min, n.Max) {
			continue
		}
		if n.IsLeaf() {
			out = append(out, int(n.LeafFirst))
			continue
		}
		stack = append(stack, n.Right, n.Left)
	}
	sort.Ints(out)
	return out
}
