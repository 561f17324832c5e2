package mathutil

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// EulerOrder names the axis sequence of an Euler rotation, e.g. "XYZ".
// The rotation matrix is the product of the axis rotations in that order,
// so "YXZ" means Ry * Rx * Rz.
type EulerOrder string

const (
	OrderXYZ EulerOrder = "XYZ"
	OrderXZY EulerOrder = "XZY"
	OrderYXZ EulerOrder = "YXZ"
	OrderYZX EulerOrder = "YZX"
	OrderZXY EulerOrder = "ZXY"
	OrderZYX EulerOrder = "ZYX"
)

// ParseEulerOrder accepts an axis order case-insensitively. Empty means XYZ.
func ParseEulerOrder(s string) (EulerOrder, error) {
	if s == "" {
		return OrderXYZ, nil
	}
	o := EulerOrder(strings.ToUpper(s))
	switch o {
	case OrderXYZ, OrderXZY, OrderYXZ, OrderYZX, OrderZXY, OrderZYX:
		return o, nil
	}
	return "", fmt.Errorf("mathutil: unknown euler order %q", s)
}

// EulerToQuat converts angles (radians, one per axis) to a unit quaternion
// composed in the given axis order.
func EulerToQuat(x, y, z float64, order EulerOrder) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})

	var q mgl64.Quat
	switch order {
	case OrderXZY:
		q = qx.Mul(qz).Mul(qy)
	case OrderYXZ:
		q = qy.Mul(qx).Mul(qz)
	case OrderYZX:
		q = qy.Mul(qz).Mul(qx)
	case OrderZXY:
		q = qz.Mul(qx).Mul(qy)
	case OrderZYX:
		q = qz.Mul(qy).Mul(qx)
	default:
		q = qx.Mul(qy).Mul(qz)
	}
	return q.Normalize()
}

// EulerDegToQuat is EulerToQuat with angles in degrees, XYZ order.
func EulerDegToQuat(deg mgl64.Vec3) mgl64.Quat {
	return EulerToQuat(Deg2Rad(deg[0]), Deg2Rad(deg[1]), Deg2Rad(deg[2]), OrderXYZ)
}
