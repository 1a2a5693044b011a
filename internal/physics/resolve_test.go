package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestReflect(t *testing.T) {
	cases := []struct {
		v, n, want mgl64.Vec2
	}{
		{mgl64.Vec2{-3, 1}, mgl64.Vec2{1, 0}, mgl64.Vec2{3, 1}},
		{mgl64.Vec2{2, -4}, mgl64.Vec2{0, 1}, mgl64.Vec2{2, 4}},
		{mgl64.Vec2{0, 0}, mgl64.Vec2{0, -1}, mgl64.Vec2{0, 0}},
		// moving away from the surface still mirrors
		{mgl64.Vec2{1, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{-1, 0}},
	}
	for _, tc := range cases {
		if got := Reflect(tc.v, tc.n); !vecNear(got, tc.want) {
			t.Errorf("Reflect(%v, %v) = %v, want %v", tc.v, tc.n, got, tc.want)
		}
	}
}

func TestReflectKeepsSpeed(t *testing.T) {
	n := mgl64.Vec2{3, 4}.Normalize()
	v := mgl64.Vec2{-1.25, 0.7}
	got := Reflect(v, n)
	if d := got.Len() - v.Len(); d > eps || d < -eps {
		t.Fatalf("speed changed by %v", d)
	}
}

func TestBodyStop(t *testing.T) {
	b := Body{
		Velocity:        mgl64.Vec2{1, 2},
		Acceleration:    mgl64.Vec2{3, 4},
		MaxAcceleration: mgl64.Vec2{1, 1},
		Collider:        Circle{Radius: 0.5},
	}
	b.Stop()
	if b.Velocity != (mgl64.Vec2{}) || b.Acceleration != (mgl64.Vec2{}) {
		t.Fatalf("expected zero motion, got v=%v a=%v", b.Velocity, b.Acceleration)
	}
	if b.MaxAcceleration != (mgl64.Vec2{1, 1}) {
		t.Fatal("Stop must not touch MaxAcceleration")
	}
	if PlanarDistance(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 4}) != 5 {
		t.Fatal("unexpected planar distance")
	}
}
