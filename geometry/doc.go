// Package geometry turns implicit engine shapes into drawable faces.
//
// The engine describes a shape by parameters (box half extents, sphere
// radius, convex hull polygons) and never emits triangles. Tessellate
// produces a Mesh: a finite, restartable sequence of faces computed on
// demand from the descriptor. Ranging over the same Mesh twice yields the
// same faces.
//
//	mesh, err := geometry.Tessellate(geometry.Sphere{Radius: 2}, geometry.Detail{Slices: 4, Segments: 4})
//	if err != nil {
//	    return err
//	}
//	for face := range mesh.Faces() {
//	    // face is 4 vertices for boxes and spheres, 3 for convex meshes
//	}
//
// Renderers that want a flat table use Mesh.Table: one row per face, the
// face's vertex coordinates flattened (12 columns for quads, 9 for
// triangles).
//
// Kinds without a tessellation (planes, capsules) fail with
// errors.ErrUnsupportedGeometry rather than producing an empty mesh.
//
// Cache memoizes tables for renderers that redraw the same shapes every
// frame.
package geometry
