package pose

import (
	"github.com/chewxy/math32"

	"github.com/wippyai/rigidbind"
)

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat returns the quaternion (0, 0, 0, 1).
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// XYZW implements Orientation.
func (q Quat) XYZW() (x, y, z, w float64) {
	return float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
}

// Length returns the quaternion norm.
func (q Quat) Length() float32 {
	return math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Negate returns -q, which represents the same rotation.
func (q Quat) Negate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, -q.W}
}

// Conjugate returns the conjugate of q. For unit quaternions this is the inverse.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Mul returns the Hamilton product q * o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.X*o.W + q.W*o.X + q.Y*o.Z - q.Z*o.Y,
		Y: q.Y*o.W + q.W*o.Y + q.Z*o.X - q.X*o.Z,
		Z: q.Z*o.W + q.W*o.Z + q.X*o.Y - q.Y*o.X,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation q to v. q must be unit length.
func (q Quat) Rotate(v rigidbind.Vec3) rigidbind.Vec3 {
	u := rigidbind.V3(q.X, q.Y, q.Z)
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Pose is a rigid transform. Q is unit length for every Pose produced by
// Decode or Identity.
type Pose struct {
	P rigidbind.Vec3
	Q Quat
}

// Identity returns the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Q: IdentityQuat()}
}

// Mul composes two transforms: the result maps a point by o first, then p.
func (p Pose) Mul(o Pose) Pose {
	return Pose{
		P: p.Q.Rotate(o.P).Add(p.P),
		Q: p.Q.Mul(o.Q),
	}
}

// Inverse returns the transform that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Q.Conjugate()
	return Pose{
		P: inv.Rotate(p.P).Negate(),
		Q: inv,
	}
}

// Apply transforms a point from the pose's local frame into its parent frame.
func (p Pose) Apply(v rigidbind.Vec3) rigidbind.Vec3 {
	return p.Q.Rotate(v).Add(p.P)
}

// Matrix returns p as a column-major 4x4 homogeneous matrix, the layout GL
// style renderers multiply onto their model-view stack.
func (p Pose) Matrix() [16]float32 {
	x, y, z, w := p.Q.X, p.Q.Y, p.Q.Z, p.Q.W
	return [16]float32{
		1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0,
		2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0,
		2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0,
		p.P.X, p.P.Y, p.P.Z, 1,
	}
}

// ApproxEqual reports whether p and o match within tol per component.
// q and -q are the same rotation and compare equal.
func (p Pose) ApproxEqual(o Pose, tol float32) bool {
	if !near(p.P.X, o.P.X, tol) || !near(p.P.Y, o.P.Y, tol) || !near(p.P.Z, o.P.Z, tol) {
		return false
	}
	return quatNear(p.Q, o.Q, tol) || quatNear(p.Q, o.Q.Negate(), tol)
}

func quatNear(a, b Quat, tol float32) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol) && near(a.W, b.W, tol)
}

func near(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}
