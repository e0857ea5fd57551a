package orientation

import (
	"math"

	"github.com/relabs-tech/mems_bsp/internal/mems"
)

// Pose is the canonical representation of orientation for your app.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is set to 0.
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	rollRad := math.Atan2(ay, az)
	pitchRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Pose{
		Roll:  rollRad * 180.0 / math.Pi,
		Pitch: pitchRad * 180.0 / math.Pi,
	}
}

// ComputePoseFromAccelMag adds a tilt-compensated magnetic heading to the
// accelerometer pose. Yaw is in degrees, 0..360, clockwise from magnetic
// north. Units of both vectors only need to be consistent per vector.
func ComputePoseFromAccelMag(ax, ay, az, mx, my, mz float64) Pose {
	p := ComputePoseFromAccel(ax, ay, az)
	roll := p.Roll * math.Pi / 180.0
	pitch := p.Pitch * math.Pi / 180.0

	// rotate the field back to the horizontal plane
	xh := mx*math.Cos(pitch) + my*math.Sin(roll)*math.Sin(pitch) + mz*math.Cos(roll)*math.Sin(pitch)
	yh := my*math.Cos(roll) - mz*math.Sin(roll)

	yaw := math.Atan2(-yh, xh) * 180.0 / math.Pi
	if yaw < 0 {
		yaw += 360
	}
	p.Yaw = yaw
	return p
}

// FromAxes computes a pose from scaled acc (mg) and optional mag (mgauss)
// readings.
func FromAxes(acc mems.Axes, mag *mems.Axes) Pose {
	ax, ay, az := float64(acc.X), float64(acc.Y), float64(acc.Z)
	if mag == nil {
		return ComputePoseFromAccel(ax, ay, az)
	}
	return ComputePoseFromAccelMag(ax, ay, az, float64(mag.X), float64(mag.Y), float64(mag.Z))
}
