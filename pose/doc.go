// Package pose converts between host pose encodings and rigid transforms.
//
// The engine stores a pose as a position and a unit quaternion. A host may
// pass any of four wire shapes:
//
//	[x, y, z]                       position, identity orientation
//	[x, y, z, qw, qx, qy, qz]       position and orientation (w first)
//	[[x, y, z]]                     same as the first form
//	[[x, y, z], orientation]        orientation exposes x, y, z, w
//
// Decode accepts all four and always normalizes the orientation. Encode
// always produces the last form as a Wire, whatever shape was decoded.
//
// The orientation in the last form is anything implementing Orientation.
// Maps and structs with x/y/z/w fields are turned into an Orientation by
// Adapt, which is the only place the codec looks at untyped host values.
package pose
