package sdf

// Cube corners, as (x, y, z) offsets. Corners 0-3 form the bottom face loop,
// 4-7 the top face loop, and corner i+4 sits above corner i.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// edgeTable marks, per corner configuration, the edges the surface crosses.
var edgeTable [256]uint16

func init() {
	for c := 0; c < 256; c++ {
		var mask uint16
		for e, ends := range edgeCorners {
			if (c>>ends[0])&1 != (c>>ends[1])&1 {
				mask |= 1 << e
			}
		}
		edgeTable[c] = mask
	}
}

// triTable lists edge triples per configuration, -1 terminated. Bit i of the
// configuration is set when corner i is inside. Triangles wind
// counter-clockwise seen from outside. Ambiguous faces keep inside corners
// apart, so neighbouring cubes always agree along shared faces.
var triTable = [256][16]int8{
	{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 3, 9, 3, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{10, 9, 8, 10, 8, 3, 10, 3, 2, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 2, 8, 2, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 11, 9, 11, 2, 9, 2, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 10, 8, 10, 1, 8, 1, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 11, 0, 11, 10, 0, 10, 9, -1, -1, -1, -1, -1, -1, -1},
	{11, 10, 9, 11, 9, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 3, 4, 3, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 4, 7, 9, 7, 3, 9, 3, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 3, 4, 3, 0, 1, 2, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{10, 9, 4, 10, 4, 7, 10, 7, 3, 10, 3, 2, -1, -1, -1, -1},
	{2, 3, 11, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 11, 4, 11, 2, 4, 2, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{9, 4, 7, 9, 7, 11, 9, 11, 2, 9, 2, 1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 11, 4, 11, 10, 4, 10, 1, 4, 1, 0, -1, -1, -1, -1},
	{0, 3, 11, 0, 11, 10, 0, 10, 9, 4, 7, 8, -1, -1, -1, -1},
	{4, 7, 11, 4, 11, 10, 4, 10, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{5, 4, 8, 5, 8, 3, 5, 3, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 10, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 5, 0, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{10, 5, 4, 10, 4, 8, 10, 8, 3, 10, 3, 2, -1, -1, -1, -1},
	{2, 3, 11, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 2, 8, 2, 0, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 2, 3, 11, -1, -1, -1, -1, -1, -1, -1},
	{5, 4, 8, 5, 8, 11, 5, 11, 2, 5, 2, 1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 10, 8, 10, 1, 8, 1, 0, 9, 5, 4, -1, -1, -1, -1},
	{0, 3, 11, 0, 11, 10, 0, 10, 5, 0, 5, 4, -1, -1, -1, -1},
	{8, 11, 10, 8, 10, 5, 8, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 7, 9, 7, 3, 9, 3, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 7, 0, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{5, 7, 3, 5, 3, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 7, 9, 7, 3, 9, 3, 0, 1, 2, 10, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 5, 0, 5, 7, 0, 7, 8, -1, -1, -1, -1},
	{10, 5, 7, 10, 7, 3, 10, 3, 2, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 7, 9, 7, 11, 9, 11, 2, 9, 2, 0, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 7, 0, 7, 8, 2, 3, 11, -1, -1, -1, -1},
	{5, 7, 11, 5, 11, 2, 5, 2, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1},
	{7, 11, 10, 7, 10, 1, 7, 1, 0, 7, 0, 9, 7, 9, 5, -1},
	{0, 3, 11, 0, 11, 10, 0, 10, 5, 0, 5, 7, 0, 7, 8, -1},
	{5, 7, 11, 5, 11, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{10, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 3, 9, 3, 1, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 6, 1, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 6, 0, 6, 5, 0, 5, 9, -1, -1, -1, -1, -1, -1, -1},
	{6, 5, 9, 6, 9, 8, 6, 8, 3, 6, 3, 2, -1, -1, -1, -1},
	{2, 3, 11, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 2, 8, 2, 0, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 11, 9, 11, 2, 9, 2, 1, 10, 6, 5, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 6, 1, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 6, 8, 6, 5, 8, 5, 1, 8, 1, 0, -1, -1, -1, -1},
	{0, 3, 11, 0, 11, 6, 0, 6, 5, 0, 5, 9, -1, -1, -1, -1},
	{9, 8, 11, 9, 11, 6, 9, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 8, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 3, 4, 3, 0, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 7, 8, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{9, 4, 7, 9, 7, 3, 9, 3, 1, 10, 6, 5, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 5, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 3, 4, 3, 0, 1, 2, 6, 1, 6, 5, -1, -1, -1, -1},
	{0, 2, 6, 0, 6, 5, 0, 5, 9, 4, 7, 8, -1, -1, -1, -1},
	{9, 4, 7, 9, 7, 3, 9, 3, 2, 9, 2, 6, 9, 6, 5, -1},
	{2, 3, 11, 4, 7, 8, 10, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 11, 4, 11, 2, 4, 2, 0, 10, 6, 5, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 4, 7, 8, 10, 6, 5, -1, -1, -1, -1},
	{9, 4, 7, 9, 7, 11, 9, 11, 2, 9, 2, 1, 10, 6, 5, -1},
	{1, 3, 11, 1, 11, 6, 1, 6, 5, 4, 7, 8, -1, -1, -1, -1},
	{11, 6, 5, 11, 5, 1, 11, 1, 0, 11, 0, 4, 11, 4, 7, -1},
	{0, 3, 11, 0, 11, 6, 0, 6, 5, 0, 5, 9, 4, 7, 8, -1},
	{11, 6, 5, 11, 5, 9, 11, 9, 4, 11, 4, 7, -1, -1, -1, -1},
	{9, 10, 6, 9, 6, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 9, 10, 6, 9, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 6, 0, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{10, 6, 4, 10, 4, 8, 10, 8, 3, 10, 3, 1, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 4, 1, 4, 9, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 6, 1, 6, 4, 1, 4, 9, -1, -1, -1, -1},
	{0, 2, 6, 0, 6, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{6, 4, 8, 6, 8, 3, 6, 3, 2, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 9, 10, 6, 9, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 2, 8, 2, 0, 9, 10, 6, 9, 6, 4, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 6, 0, 6, 4, 2, 3, 11, -1, -1, -1, -1},
	{4, 8, 11, 4, 11, 2, 4, 2, 1, 4, 1, 10, 4, 10, 6, -1},
	{1, 3, 11, 1, 11, 6, 1, 6, 4, 1, 4, 9, -1, -1, -1, -1},
	{11, 6, 4, 11, 4, 9, 11, 9, 1, 11, 1, 0, 11, 0, 8, -1},
	{0, 3, 11, 0, 11, 6, 0, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{8, 11, 6, 8, 6, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{6, 7, 8, 6, 8, 9, 6, 9, 10, -1, -1, -1, -1, -1, -1, -1},
	{9, 10, 6, 9, 6, 7, 9, 7, 3, 9, 3, 0, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 6, 0, 6, 7, 0, 7, 8, -1, -1, -1, -1},
	{10, 6, 7, 10, 7, 3, 10, 3, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 7, 1, 7, 8, 1, 8, 9, -1, -1, -1, -1},
	{9, 1, 2, 9, 2, 6, 9, 6, 7, 9, 7, 3, 9, 3, 0, -1},
	{0, 2, 6, 0, 6, 7, 0, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{6, 7, 3, 6, 3, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 6, 7, 8, 6, 8, 9, 6, 9, 10, -1, -1, -1, -1},
	{9, 10, 6, 9, 6, 7, 9, 7, 11, 9, 11, 2, 9, 2, 0, -1},
	{0, 1, 10, 0, 10, 6, 0, 6, 7, 0, 7, 8, 2, 3, 11, -1},
	{7, 11, 2, 7, 2, 1, 7, 1, 10, 7, 10, 6, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 6, 1, 6, 7, 1, 7, 8, 1, 8, 9, -1},
	{9, 1, 0, 6, 7, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 11, 0, 11, 6, 0, 6, 7, 0, 7, 8, -1, -1, -1, -1},
	{6, 7, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{11, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 3, 9, 3, 1, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 10, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{10, 9, 8, 10, 8, 3, 10, 3, 2, 11, 7, 6, -1, -1, -1, -1},
	{2, 3, 7, 2, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 6, 8, 6, 2, 8, 2, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 7, 2, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 7, 9, 7, 6, 9, 6, 2, 9, 2, 1, -1, -1, -1, -1},
	{1, 3, 7, 1, 7, 6, 1, 6, 10, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 6, 8, 6, 10, 8, 10, 1, 8, 1, 0, -1, -1, -1, -1},
	{0, 3, 7, 0, 7, 6, 0, 6, 10, 0, 10, 9, -1, -1, -1, -1},
	{10, 9, 8, 10, 8, 7, 10, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 6, 11, 4, 11, 3, 4, 3, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{9, 4, 6, 9, 6, 11, 9, 11, 3, 9, 3, 1, -1, -1, -1, -1},
	{1, 2, 10, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{4, 6, 11, 4, 11, 3, 4, 3, 0, 1, 2, 10, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1},
	{9, 4, 6, 9, 6, 11, 9, 11, 3, 9, 3, 2, 9, 2, 10, -1},
	{2, 3, 8, 2, 8, 4, 2, 4, 6, -1, -1, -1, -1, -1, -1, -1},
	{4, 6, 2, 4, 2, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 8, 2, 8, 4, 2, 4, 6, -1, -1, -1, -1},
	{9, 4, 6, 9, 6, 2, 9, 2, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 8, 1, 8, 4, 1, 4, 6, 1, 6, 10, -1, -1, -1, -1},
	{4, 6, 10, 4, 10, 1, 4, 1, 0, -1, -1, -1, -1, -1, -1, -1},
	{3, 8, 4, 3, 4, 6, 3, 6, 10, 3, 10, 9, 3, 9, 0, -1},
	{4, 6, 10, 4, 10, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 4, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 9, 5, 4, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{5, 4, 8, 5, 8, 3, 5, 3, 1, 11, 7, 6, -1, -1, -1, -1},
	{1, 2, 10, 9, 5, 4, 11, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 10, 9, 5, 4, 11, 7, 6, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 5, 0, 5, 4, 11, 7, 6, -1, -1, -1, -1},
	{10, 5, 4, 10, 4, 8, 10, 8, 3, 10, 3, 2, 11, 7, 6, -1},
	{2, 3, 7, 2, 7, 6, 9, 5, 4, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 6, 8, 6, 2, 8, 2, 0, 9, 5, 4, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 2, 3, 7, 2, 7, 6, -1, -1, -1, -1},
	{8, 7, 6, 8, 6, 2, 8, 2, 1, 8, 1, 5, 8, 5, 4, -1},
	{1, 3, 7, 1, 7, 6, 1, 6, 10, 9, 5, 4, -1, -1, -1, -1},
	{8, 7, 6, 8, 6, 10, 8, 10, 1, 8, 1, 0, 9, 5, 4, -1},
	{0, 3, 7, 0, 7, 6, 0, 6, 10, 0, 10, 5, 0, 5, 4, -1},
	{8, 7, 6, 8, 6, 10, 8, 10, 5, 8, 5, 4, -1, -1, -1, -1},
	{5, 6, 11, 5, 11, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 5, 6, 9, 6, 11, 9, 11, 3, 9, 3, 0, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 6, 0, 6, 11, 0, 11, 8, -1, -1, -1, -1},
	{5, 6, 11, 5, 11, 3, 5, 3, 1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 5, 6, 11, 5, 11, 8, 5, 8, 9, -1, -1, -1, -1},
	{9, 5, 6, 9, 6, 11, 9, 11, 3, 9, 3, 0, 1, 2, 10, -1},
	{0, 2, 10, 0, 10, 5, 0, 5, 6, 0, 6, 11, 0, 11, 8, -1},
	{5, 6, 11, 5, 11, 3, 5, 3, 2, 5, 2, 10, -1, -1, -1, -1},
	{2, 3, 8, 2, 8, 9, 2, 9, 5, 2, 5, 6, -1, -1, -1, -1},
	{9, 5, 6, 9, 6, 2, 9, 2, 0, -1, -1, -1, -1, -1, -1, -1},
	{5, 6, 2, 5, 2, 3, 5, 3, 8, 5, 8, 0, 5, 0, 1, -1},
	{5, 6, 2, 5, 2, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{3, 8, 9, 3, 9, 5, 3, 5, 6, 3, 6, 10, 3, 10, 1, -1},
	{6, 10, 1, 6, 1, 0, 6, 0, 9, 6, 9, 5, -1, -1, -1, -1},
	{0, 3, 8, 5, 6, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{5, 6, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{10, 11, 7, 10, 7, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 10, 11, 7, 10, 7, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 10, 11, 7, 10, 7, 5, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 3, 9, 3, 1, 10, 11, 7, 10, 7, 5, -1, -1, -1, -1},
	{1, 2, 11, 1, 11, 7, 1, 7, 5, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 11, 1, 11, 7, 1, 7, 5, -1, -1, -1, -1},
	{0, 2, 11, 0, 11, 7, 0, 7, 5, 0, 5, 9, -1, -1, -1, -1},
	{5, 9, 8, 5, 8, 3, 5, 3, 2, 5, 2, 11, 5, 11, 7, -1},
	{2, 3, 7, 2, 7, 5, 2, 5, 10, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 5, 8, 5, 10, 8, 10, 2, 8, 2, 0, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 7, 2, 7, 5, 2, 5, 10, -1, -1, -1, -1},
	{8, 7, 5, 8, 5, 10, 8, 10, 2, 8, 2, 1, 8, 1, 9, -1},
	{1, 3, 7, 1, 7, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 5, 8, 5, 1, 8, 1, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 7, 0, 7, 5, 0, 5, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 8, 7, 9, 7, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 5, 10, 4, 10, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{4, 5, 10, 4, 10, 11, 4, 11, 3, 4, 3, 0, -1, -1, -1, -1},
	{0, 1, 9, 4, 5, 10, 4, 10, 11, 4, 11, 8, -1, -1, -1, -1},
	{4, 5, 10, 4, 10, 11, 4, 11, 3, 4, 3, 1, 4, 1, 9, -1},
	{1, 2, 11, 1, 11, 8, 1, 8, 4, 1, 4, 5, -1, -1, -1, -1},
	{4, 5, 1, 4, 1, 2, 4, 2, 11, 4, 11, 3, 4, 3, 0, -1},
	{2, 11, 8, 2, 8, 4, 2, 4, 5, 2, 5, 9, 2, 9, 0, -1},
	{11, 3, 2, 4, 5, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 8, 2, 8, 4, 2, 4, 5, 2, 5, 10, -1, -1, -1, -1},
	{4, 5, 10, 4, 10, 2, 4, 2, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 8, 2, 8, 4, 2, 4, 5, 2, 5, 10, -1},
	{4, 5, 10, 4, 10, 2, 4, 2, 1, 4, 1, 9, -1, -1, -1, -1},
	{1, 3, 8, 1, 8, 4, 1, 4, 5, -1, -1, -1, -1, -1, -1, -1},
	{4, 5, 1, 4, 1, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{3, 8, 4, 3, 4, 5, 3, 5, 9, 3, 9, 0, -1, -1, -1, -1},
	{4, 5, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 10, 11, 9, 11, 7, 9, 7, 4, -1, -1, -1, -1, -1, -1, -1},
	{8, 3, 0, 9, 10, 11, 9, 11, 7, 9, 7, 4, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 11, 0, 11, 7, 0, 7, 4, -1, -1, -1, -1},
	{10, 11, 7, 10, 7, 4, 10, 4, 8, 10, 8, 3, 10, 3, 1, -1},
	{1, 2, 11, 1, 11, 7, 1, 7, 4, 1, 4, 9, -1, -1, -1, -1},
	{8, 3, 0, 1, 2, 11, 1, 11, 7, 1, 7, 4, 1, 4, 9, -1},
	{0, 2, 11, 0, 11, 7, 0, 7, 4, -1, -1, -1, -1, -1, -1, -1},
	{4, 8, 3, 4, 3, 2, 4, 2, 11, 4, 11, 7, -1, -1, -1, -1},
	{2, 3, 7, 2, 7, 4, 2, 4, 9, 2, 9, 10, -1, -1, -1, -1},
	{7, 4, 9, 7, 9, 10, 7, 10, 2, 7, 2, 0, 7, 0, 8, -1},
	{10, 2, 3, 10, 3, 7, 10, 7, 4, 10, 4, 0, 10, 0, 1, -1},
	{10, 2, 1, 8, 7, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 7, 1, 7, 4, 1, 4, 9, -1, -1, -1, -1, -1, -1, -1},
	{7, 4, 9, 7, 9, 1, 7, 1, 0, 7, 0, 8, -1, -1, -1, -1},
	{0, 3, 7, 0, 7, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 7, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 9, 10, 8, 10, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 10, 11, 9, 11, 3, 9, 3, 0, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 11, 0, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{10, 11, 3, 10, 3, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 11, 1, 11, 8, 1, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{9, 1, 2, 9, 2, 11, 9, 11, 3, 9, 3, 0, -1, -1, -1, -1},
	{0, 2, 11, 0, 11, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{11, 3, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 8, 2, 8, 9, 2, 9, 10, -1, -1, -1, -1, -1, -1, -1},
	{9, 10, 2, 9, 2, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{10, 2, 3, 10, 3, 8, 10, 8, 0, 10, 0, 1, -1, -1, -1, -1},
	{10, 2, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 8, 1, 8, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{9, 1, 0, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
}
