package asset

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
	"github.com/hungaromakker/battle-tok-sub003/engine/variety"
)

const (
	Magic      = "BTAS"
	Version    = uint32(1)
	HeaderSize = 32
)

var (
	ErrInvalidMagic       = errors.New("asset: invalid magic")
	ErrUnsupportedVersion = errors.New("asset: unsupported version")
	ErrFileTooShort       = errors.New("asset: file too short")
	ErrCorruptOffsets     = errors.New("asset: corrupt section offsets")
	ErrInvalidMesh        = errors.New("asset: invalid mesh")
)

type Metadata struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Method      string    `json:"method"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// NewMetadata assigns a fresh id.
func NewMetadata(name, category, method string) Metadata {
	return Metadata{ID: uuid.New(), Name: name, Category: category, Method: method}
}

// Asset is the in-memory form of a .btasset file.
type Asset struct {
	Mesh     mesh.Mesh
	Metadata Metadata
	Variety  variety.Params
}

// Header is the fixed 32-byte little-endian file header:
//
//	0  magic "BTAS"
//	4  version
//	8  vertex count
//	12 index count
//	16 metadata offset
//	20 metadata length
//	24 variety offset
//	28 variety length
//
// Vertex bytes start at HeaderSize, index bytes follow them.
type Header struct {
	Version       uint32
	VertexCount   uint32
	IndexCount    uint32
	MetaOffset    uint32
	MetaLength    uint32
	VarietyOffset uint32
	VarietyLength uint32
}

func (h Header) geometryEnd() uint64 {
	return HeaderSize + uint64(h.VertexCount)*mesh.VertexSize + uint64(h.IndexCount)*4
}

func (h Header) put(buf []byte) {
	copy(buf[0:4], Magic)
	le := binary.LittleEndian
	le.PutUint32(buf[4:8], h.Version)
	le.PutUint32(buf[8:12], h.VertexCount)
	le.PutUint32(buf[12:16], h.IndexCount)
	le.PutUint32(buf[16:20], h.MetaOffset)
	le.PutUint32(buf[20:24], h.MetaLength)
	le.PutUint32(buf[24:28], h.VarietyOffset)
	le.PutUint32(buf[28:32], h.VarietyLength)
}

// ReadHeader validates magic and version and returns the header.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrFileTooShort, len(data))
	}
	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidMagic, data[0:4])
	}
	le := binary.LittleEndian
	h := Header{
		Version:       le.Uint32(data[4:8]),
		VertexCount:   le.Uint32(data[8:12]),
		IndexCount:    le.Uint32(data[12:16]),
		MetaOffset:    le.Uint32(data[16:20]),
		MetaLength:    le.Uint32(data[20:24]),
		VarietyOffset: le.Uint32(data[24:28]),
		VarietyLength: le.Uint32(data[28:32]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	return h, nil
}

// Encode serializes a into the .btasset layout.
func Encode(a *Asset) ([]byte, error) {
	if err := a.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, fmt.Errorf("asset: encode metadata: %w", err)
	}
	params, err := json.Marshal(a.Variety)
	if err != nil {
		return nil, fmt.Errorf("asset: encode variety: %w", err)
	}

	h := Header{
		Version:     Version,
		VertexCount: uint32(len(a.Mesh.Vertices)),
		IndexCount:  uint32(len(a.Mesh.Indices)),
	}
	geomEnd := h.geometryEnd()
	h.MetaOffset = uint32(geomEnd)
	h.MetaLength = uint32(len(meta))
	h.VarietyOffset = h.MetaOffset + h.MetaLength
	h.VarietyLength = uint32(len(params))

	buf := make([]byte, HeaderSize, int(geomEnd)+len(meta)+len(params))
	h.put(buf)
	buf = append(buf, a.Mesh.VertexBytes()...)
	buf = append(buf, a.Mesh.IndexBytes()...)
	buf = append(buf, meta...)
	buf = append(buf, params...)
	return buf, nil
}

// Decode parses a .btasset buffer. Malformed input fails with one of the
// package's sentinel errors; nothing is repaired.
func Decode(data []byte) (*Asset, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	size := uint64(len(data))
	geomEnd := h.geometryEnd()
	if geomEnd > size {
		return nil, fmt.Errorf("%w: geometry needs %d bytes, have %d", ErrFileTooShort, geomEnd, size)
	}
	if err := checkSection(h.MetaOffset, h.MetaLength, geomEnd, size); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	if err := checkSection(h.VarietyOffset, h.VarietyLength, geomEnd, size); err != nil {
		return nil, fmt.Errorf("variety: %w", err)
	}

	a := &Asset{}
	a.Mesh.Vertices = make([]mesh.Vertex, h.VertexCount)
	off := uint64(HeaderSize)
	for i := range a.Mesh.Vertices {
		a.Mesh.Vertices[i] = mesh.ReadVertex(data[off : off+mesh.VertexSize])
		off += mesh.VertexSize
	}
	a.Mesh.Indices = make([]uint32, h.IndexCount)
	for i := range a.Mesh.Indices {
		a.Mesh.Indices[i] = binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
	}
	if err := a.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}

	if h.MetaLength > 0 {
		meta := data[h.MetaOffset : h.MetaOffset+h.MetaLength]
		if err := json.Unmarshal(meta, &a.Metadata); err != nil {
			return nil, fmt.Errorf("asset: decode metadata: %w", err)
		}
	}
	if h.VarietyLength > 0 {
		params := data[h.VarietyOffset : h.VarietyOffset+h.VarietyLength]
		if err := json.Unmarshal(params, &a.Variety); err != nil {
			return nil, fmt.Errorf("asset: decode variety: %w", err)
		}
	}
	return a, nil
}

func checkSection(offset, length uint32, geomEnd, size uint64) error {
	if length == 0 {
		return nil
	}
	start := uint64(offset)
	end := start + uint64(length)
	if start < geomEnd || end > size {
		return fmt.Errorf("%w: [%d,%d) outside [%d,%d)", ErrCorruptOffsets, start, end, geomEnd, size)
	}
	return nil
}

func Save(path string, a *Asset) error {
	data, err := Encode(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("asset: write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	a, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
