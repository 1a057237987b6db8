package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Euler angles use the XYZ convention: the X rotation is applied first,
// then Y, then Z, so the matrix is Rz * Ry * Rx.

// EulerToQuat converts XYZ Euler angles (radians) to a quaternion.
func EulerToQuat(e mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(e[0], AxisX)
	qy := mgl64.QuatRotate(e[1], AxisY)
	qz := mgl64.QuatRotate(e[2], AxisZ)
	return qz.Mul(qy).Mul(qx)
}

// EulerToMat3 converts XYZ Euler angles to a rotation matrix.
func EulerToMat3(e mgl64.Vec3) mgl64.Mat3 {
	return QuatToMat3(EulerToQuat(e))
}

// QuatToEuler converts a quaternion to XYZ Euler angles.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	return Mat3ToEuler(QuatToMat3(q.Normalize()))
}

// Mat3ToEuler extracts XYZ Euler angles from a rotation matrix.
func Mat3ToEuler(m mgl64.Mat3) mgl64.Vec3 {
	// m.At(row, col)
	r00, r10, r20 := m.At(0, 0), m.At(1, 0), m.At(2, 0)
	r21, r22 := m.At(2, 1), m.At(2, 2)
	cy := gomath.Hypot(r00, r10)
	if cy > 16*gomath.SmallestNonzeroFloat32 && cy > 1e-12 {
		return mgl64.Vec3{
			gomath.Atan2(r21, r22),
			gomath.Atan2(-r20, cy),
			gomath.Atan2(r10, r00),
		}
	}
	// Gimbal lock: fold the Z rotation into X.
	return mgl64.Vec3{
		gomath.Atan2(-m.At(1, 2), m.At(1, 1)),
		gomath.Atan2(-r20, cy),
		0,
	}
}

// QuatToMat3 converts a unit quaternion to a rotation matrix.
func QuatToMat3(q mgl64.Quat) mgl64.Mat3 {
	return q.Mat4().Mat3()
}
