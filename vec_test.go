package rigidbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	assert.Equal(t, V3(5, 7, 9), a.Add(b))
	assert.Equal(t, V3(3, 3, 3), b.Sub(a))
	assert.Equal(t, V3(4, 10, 18), a.Mul(b))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
	assert.Equal(t, V3(-1, -2, -3), a.Negate())
	assert.Equal(t, float32(32), a.Dot(b))
	assert.Equal(t, V3(0, 0, 1), V3(1, 0, 0).Cross(V3(0, 1, 0)))
	assert.InDelta(t, 5.0, float64(V3(3, 4, 0).Length()), 1e-6)
	assert.True(t, Vec3{}.IsZero())
	assert.Equal(t, [3]float32{1, 2, 3}, a.Array())
}
