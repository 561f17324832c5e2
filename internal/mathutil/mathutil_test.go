package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9)
}

func TestEulerToQuatSingleAxis(t *testing.T) {
	q := EulerToQuat(0, math.Pi/2, 0, OrderYXZ)
	// +90° about Y maps -Z onto -X.
	vecNear(t, mgl64.Vec3{-1, 0, 0}, q.Rotate(mgl64.Vec3{0, 0, -1}))
}

func TestEulerToQuatOrderMatters(t *testing.T) {
	a := EulerToQuat(math.Pi/2, math.Pi/2, 0, OrderXYZ)
	b := EulerToQuat(math.Pi/2, math.Pi/2, 0, OrderYXZ)
	assert.Greater(t, QuatAngle(a, b), 0.1)
}

func TestParseEulerOrder(t *testing.T) {
	o, err := ParseEulerOrder("yxz")
	require.NoError(t, err)
	assert.Equal(t, OrderYXZ, o)

	o, err = ParseEulerOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderXYZ, o)

	_, err = ParseEulerOrder("XXY")
	assert.Error(t, err)
}

func TestLookRotationFacesCenter(t *testing.T) {
	cases := []struct {
		name string
		eye  mgl64.Vec3
	}{
		{"front", mgl64.Vec3{0, 0, 10}},
		{"iso", mgl64.Vec3{10, 8, 10}},
		{"side", mgl64.Vec3{-4, 1, 0}},
		{"top", mgl64.Vec3{0, 30, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := LookRotation(tc.eye, mgl64.Vec3{}, Up)
			assert.InDelta(t, 1.0, q.Len(), 1e-9)
			want := tc.eye.Mul(-1).Normalize()
			vecNear(t, want, q.Rotate(Forward))
		})
	}
}

func TestLookRotationKeepsUpright(t *testing.T) {
	q := LookRotation(mgl64.Vec3{10, 8, 10}, mgl64.Vec3{}, Up)
	right := q.Rotate(mgl64.Vec3{1, 0, 0})
	assert.InDelta(t, 0, right[1], 1e-9, "camera right axis stays horizontal")
	assert.Greater(t, q.Rotate(mgl64.Vec3{0, 1, 0})[1], 0.0)
}

func TestSlerpShortestArc(t *testing.T) {
	a := mgl64.QuatIdent()
	b := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	negB := b.Scale(-1)

	mid := Slerp(a, negB, 0.5)
	assert.InDelta(t, math.Pi/4, QuatAngle(a, mid), 1e-9)
	assert.InDelta(t, math.Pi/4, QuatAngle(mid, b), 1e-9)
}

func TestSlerpEndpoints(t *testing.T) {
	a := mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0})
	b := mgl64.QuatRotate(1.2, mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 0, QuatAngle(a, Slerp(a, b, 0)), 1e-9)
	assert.InDelta(t, 0, QuatAngle(b, Slerp(a, b, 1)), 1e-9)
}

func TestSphericalRoundTrip(t *testing.T) {
	v := mgl64.Vec3{3, 4, -5}
	vecNear(t, v, ToSpherical(v).Vec3())
}

func TestEaseOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutQuad(0))
	assert.Equal(t, 1.0, EaseOutQuad(1))
	assert.Equal(t, 0.75, EaseOutQuad(0.5))
}

func TestAngleDist(t *testing.T) {
	assert.Equal(t, 10.0, AngleDist(355, 5))
	assert.Equal(t, 180.0, AngleDist(90, 270))
}
