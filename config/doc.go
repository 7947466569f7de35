// Package config loads scene files.
//
// A scene file is YAML:
//
//	detail:
//	  slices: 16
//	  segments: 12
//	shapes:
//	  - name: crate
//	    kind: box
//	    half_extents: [0.5, 0.5, 0.5]
//	  - name: ball
//	    kind: sphere
//	    radius: 0.25
//	    pose: [[0, 1, 0], {x: 0, y: 0, z: 0, w: 1}]
//	  - name: wedge
//	    kind: convex
//	    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
//	    polygons: [[0, 2, 1], [0, 1, 3], [0, 3, 2], [1, 2, 3]]
//	    scale: [2, 1, 1]
//	actors:
//	  - name: cart
//	    kind: dynamic
//	    mass: 10
//	    pose: [0, 0, 5]
//	    shapes: [crate, ball]
//
// A shape pose is its local pose and accepts every form pose.Decode does.
// Shapes not listed by any actor are created standalone.
package config
