package asset

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
	"github.com/hungaromakker/battle-tok-sub003/engine/variety"
)

func sampleAsset() *Asset {
	m := sdf.Lathe([]mgl32.Vec2{{0.3, 0}, {0.5, 0.4}, {0.2, 1}}, 10, 360, [4]float32{0.6, 0.4, 0.2, 1})
	// Awkward float values must survive bit-for-bit.
	m.Vertices[0].Color[3] = math.Float32frombits(0x3F7FFFFF)
	m.Vertices[1].Position[0] = float32(math.Copysign(0, -1))

	meta := NewMetadata("Clay Pot", "props", "lathe")
	meta.Tags = []string{"pottery", "small"}
	meta.Description = "ünïcode ✓"
	return &Asset{
		Mesh:     m,
		Metadata: meta,
		Variety:  variety.Params{Seed: 99, ScaleJitter: 0.15, RotationJitter: 0.3, ColorJitter: 0.05},
	}
}

func TestRoundTrip(t *testing.T) {
	a := sampleAsset()
	data, err := Encode(a)
	require.NoError(t, err)

	h, err := ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(len(a.Mesh.Vertices)), h.VertexCount)
	assert.Equal(t, uint32(len(a.Mesh.Indices)), h.IndexCount)
	assert.Equal(t, uint32(len(data)), h.VarietyOffset+h.VarietyLength)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Mesh.Vertices, len(a.Mesh.Vertices))
	for i := range a.Mesh.Vertices {
		want, have := a.Mesh.Vertices[i], got.Mesh.Vertices[i]
		for k := 0; k < 3; k++ {
			require.Equal(t, math.Float32bits(want.Position[k]), math.Float32bits(have.Position[k]))
			require.Equal(t, math.Float32bits(want.Normal[k]), math.Float32bits(have.Normal[k]))
		}
		for k := 0; k < 4; k++ {
			require.Equal(t, math.Float32bits(want.Color[k]), math.Float32bits(have.Color[k]))
		}
	}
	assert.Equal(t, a.Mesh.Indices, got.Mesh.Indices)
	assert.Equal(t, a.Metadata, got.Metadata)
	assert.Equal(t, a.Variety, got.Variety)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pot.btasset")
	a := sampleAsset()
	require.NoError(t, Save(path, a))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Metadata.ID, got.Metadata.ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.btasset"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodeErrors(t *testing.T) {
	good, err := Encode(sampleAsset())
	require.NoError(t, err)

	clone := func() []byte { return append([]byte(nil), good...) }

	badMagic := clone()
	copy(badMagic, "NOPE")

	badVersion := clone()
	binary.LittleEndian.PutUint32(badVersion[4:8], 7)

	truncated := clone()[:HeaderSize+10]

	badOffset := clone()
	binary.LittleEndian.PutUint32(badOffset[16:20], 4)

	overrun := clone()
	binary.LittleEndian.PutUint32(overrun[28:32], 1<<20)

	badIndex := clone()
	idxStart := HeaderSize + len(sampleAsset().Mesh.Vertices)*mesh.VertexSize
	binary.LittleEndian.PutUint32(badIndex[idxStart:], 1<<30)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrFileTooShort},
		{"short header", good[:12], ErrFileTooShort},
		{"magic", badMagic, ErrInvalidMagic},
		{"version", badVersion, ErrUnsupportedVersion},
		{"truncated geometry", truncated, ErrFileTooShort},
		{"metadata inside geometry", badOffset, ErrCorruptOffsets},
		{"variety past end", overrun, ErrCorruptOffsets},
		{"index out of range", badIndex, ErrInvalidMesh},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestEncodeRejectsInvalidMesh(t *testing.T) {
	a := sampleAsset()
	a.Mesh.Indices = append(a.Mesh.Indices, 9999, 0, 0)
	_, err := Encode(a)
	assert.True(t, errors.Is(err, ErrInvalidMesh))
	assert.True(t, errors.Is(err, mesh.ErrIndexOutOfRange))
}
