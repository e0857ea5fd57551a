package orientation

import (
	"math"
	"testing"

	"github.com/relabs-tech/mems_bsp/internal/mems"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestComputePoseFromAccel(t *testing.T) {
	cases := []struct {
		name        string
		ax, ay, az  float64
		roll, pitch float64
	}{
		{"Level", 0, 0, 1000, 0, 0},
		{"RollRight", 0, 1000, 0, 90, 0},
		{"NoseDown", 1000, 0, 0, 0, -90},
		{"Roll45", 0, 707, 707, 45, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ComputePoseFromAccel(tc.ax, tc.ay, tc.az)
			if !near(p.Roll, tc.roll) || !near(p.Pitch, tc.pitch) || p.Yaw != 0 {
				t.Fatalf("pose=%+v want roll=%v pitch=%v", p, tc.roll, tc.pitch)
			}
		})
	}
}

func TestComputePoseFromAccelMagHeading(t *testing.T) {
	cases := []struct {
		mx, my float64
		yaw    float64
	}{
		{400, 0, 0},
		{0, -400, 90},
		{-400, 0, 180},
		{0, 400, 270},
	}
	for _, tc := range cases {
		p := ComputePoseFromAccelMag(0, 0, 1000, tc.mx, tc.my, -300)
		if !near(p.Yaw, tc.yaw) {
			t.Errorf("mag=(%v,%v) yaw=%v want %v", tc.mx, tc.my, p.Yaw, tc.yaw)
		}
	}
}

func TestFromAxes(t *testing.T) {
	p := FromAxes(mems.Axes{Y: 1000}, nil)
	if !near(p.Roll, 90) || p.Yaw != 0 {
		t.Fatalf("pose=%+v", p)
	}
	p = FromAxes(mems.Axes{Z: 1000}, &mems.Axes{X: -400, Z: -300})
	if !near(p.Yaw, 180) {
		t.Fatalf("yaw=%v want 180", p.Yaw)
	}
}
