package common

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// Gravity is the downward acceleration applied by the reference host.
	Gravity = 120.0
)

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ForAngle returns a vector of the given magnitude pointing at angle radians.
func ForAngle(angle, magnitude float64) cp.Vector {
	return cp.Vector{X: math.Cos(angle) * magnitude, Y: math.Sin(angle) * magnitude}
}

// Jitter returns v rotated by a uniformly random angle in [-spread, spread].
func Jitter(v cp.Vector, spread float64) cp.Vector {
	a := (rand.Float64()*2 - 1) * spread
	sin, cos := math.Sin(a), math.Cos(a)
	return cp.Vector{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}
