// Package geo provides the geodetic primitives shared by every source
// adapter and derivation pass: positions, bounding rectangles, bearings,
// and the unit conversions between feet, nautical miles, and meters.
package geo

import (
	stdmath "math"

	"golang.org/x/exp/constraints"
)

func Degrees(r float32) float32 { return r * 180 / stdmath.Pi }

func Radians(d float32) float32 { return d / 180 * stdmath.Pi }

func Sin(a float32) float32 { return float32(stdmath.Sin(float64(a))) }

func Cos(a float32) float32 { return float32(stdmath.Cos(float64(a))) }

func Atan2(y, x float32) float32 { return float32(stdmath.Atan2(float64(y), float64(x))) }

func Sqrt(a float32) float32 { return float32(stdmath.Sqrt(float64(a))) }

func Mod(a, b float32) float32 { return float32(stdmath.Mod(float64(a), float64(b))) }

func Floor(v float32) float32 { return float32(stdmath.Floor(float64(v))) }

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Unit conversions. Positions in this module are longitude/latitude
// degrees; altitudes and lengths derived from source records are feet
// unless noted, distances along the surface are nautical miles.
const (
	NauticalMilesToFeet  = 6076.12
	FeetToNauticalMiles  = 1 / NauticalMilesToFeet
	NauticalMilesToMeter = 1852.0
	MeterToNauticalMiles = 1 / NauticalMilesToMeter
	FeetToMeter          = 0.3048
	MeterToFeet          = 1 / FeetToMeter
	NMPerLatitudeDegree  = 60
)

// NMPerLongitudeDegree returns the number of nautical miles per degree of
// longitude at the given latitude; it shrinks toward the poles as
// cos(latitude). Used to convert between lat/long and a locally flat
// nautical-mile coordinate frame.
func NMPerLongitudeDegree(latitude float32) float32 {
	return NMPerLatitudeDegree * Cos(Radians(latitude))
}
