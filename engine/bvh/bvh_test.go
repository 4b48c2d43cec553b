package bvh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoObjectsSplit(t *testing.T) {
	boxes := [][2]mgl32.Vec3{
		{{-100, -1, -1}, {-98, 1, 1}},
		{{100, -1, -1}, {102, 1, 1}},
	}
	tree := Build(boxes)
	data := tree.Bytes()

	// Root plus two leaves.
	if len(data) != NodeSize*3 {
		t.Fatalf("expected %d bytes, got %d", NodeSize*3, len(data))
	}

	rootMinX := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	rootMaxX := math.Float32frombits(binary.LittleEndian.Uint32(data[16:20]))
	if rootMinX > -100 || rootMaxX < 102 {
		t.Errorf("root bounds [%v, %v] do not cover both boxes", rootMinX, rootMaxX)
	}

	left := int32(binary.LittleEndian.Uint32(data[32:36]))
	right := int32(binary.LittleEndian.Uint32(data[36:40]))
	if left != 1 || right != 2 {
		t.Errorf("expected children 1 and 2, got %d and %d", left, right)
	}
	leafCount := int32(binary.LittleEndian.Uint32(data[NodeSize+44 : NodeSize+48]))
	if leafCount != 1 {
		t.Errorf("expected leaf count 1, got %d", leafCount)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := Build(nil)
	assert.Len(t, tree.Bytes(), NodeSize)
	tree.Traverse(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 10, func(int, float32) bool {
		t.Fatal("empty tree visited a leaf")
		return true
	})
}

func rowOfBoxes(n int) [][2]mgl32.Vec3 {
	boxes := make([][2]mgl32.Vec3, n)
	for i := range boxes {
		x := float32(i * 3)
		boxes[i] = [2]mgl32.Vec3{{x, 0, 0}, {x + 1, 1, 1}}
	}
	return boxes
}

func TestTraverseFindsBoxesOnRay(t *testing.T) {
	tree := Build(rowOfBoxes(16))

	var hit []int
	tree.Traverse(mgl32.Vec3{-5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 1000, func(i int, _ float32) bool {
		hit = append(hit, i)
		return true
	})
	assert.Len(t, hit, 16)

	hit = hit[:0]
	tree.Traverse(mgl32.Vec3{-5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 10, func(i int, _ float32) bool {
		hit = append(hit, i)
		return true
	})
	// Boxes starting at x=0 and x=3 are entered within 10 units of x=-5.
	assert.ElementsMatch(t, []int{0, 1}, hit)

	var missed bool
	tree.Traverse(mgl32.Vec3{-5, 5, 0.5}, mgl32.Vec3{1, 0, 0}, 1000, func(int, float32) bool {
		missed = true
		return true
	})
	assert.False(t, missed)
}

func TestQueryAABB(t *testing.T) {
	tree := Build(rowOfBoxes(10))
	got := tree.QueryAABB(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{10, 1, 1})
	require.Equal(t, []int{2, 3}, got)
}
