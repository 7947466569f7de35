package geometry

import (
	"iter"

	"github.com/wippyai/rigidbind"
)

// Face is an ordered list of vertex positions: 4 for a quad, 3 for a triangle.
type Face []rigidbind.Vec3

// Mesh is a lazily generated sequence of faces. It holds the descriptor
// rather than the faces, so it is cheap to copy and every Faces call starts
// over from the first face.
type Mesh struct {
	desc   Descriptor
	detail Detail
	gen    func(yield func(Face) bool)
	n      int
	arity  int
}

// Descriptor returns the geometry the mesh was generated from.
func (m Mesh) Descriptor() Descriptor {
	return m.desc
}

// Detail returns the detail parameters with defaults applied.
func (m Mesh) Detail() Detail {
	return m.detail
}

// Len returns the number of faces.
func (m Mesh) Len() int {
	return m.n
}

// Arity returns the number of vertices per face.
func (m Mesh) Arity() int {
	return m.arity
}

// Faces returns the face sequence. Each yielded Face is freshly allocated
// and may be retained by the caller.
func (m Mesh) Faces() iter.Seq[Face] {
	return func(yield func(Face) bool) {
		if m.gen == nil {
			return
		}
		m.gen(yield)
	}
}

// Table flattens the mesh into rows of vertex coordinates, one row per face:
// x0 y0 z0 x1 y1 z1 ...
func (m Mesh) Table() [][]float32 {
	rows := make([][]float32, 0, m.n)
	backing := make([]float32, m.n*m.arity*3)
	for face := range m.Faces() {
		row := backing[:0:len(face)*3]
		backing = backing[len(face)*3:]
		for _, v := range face {
			row = append(row, v.X, v.Y, v.Z)
		}
		rows = append(rows, row)
	}
	return rows
}
