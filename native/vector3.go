package native

import (
	"fmt"
	"math"
	"strconv"
)

// Vector3 is a three component value type. Operations never mutate their
// operands; every method returns a new Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewVector3 creates a Vector3 from its components.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// GetX returns the X component.
func (v Vector3) GetX() float64 { return v.X }

// GetY returns the Y component.
func (v Vector3) GetY() float64 { return v.Y }

// GetZ returns the Z component.
func (v Vector3) GetZ() float64 { return v.Z }

// WithX returns a copy of v with X replaced.
func (v Vector3) WithX(x float64) Vector3 {
	v.X = x
	return v
}

// WithY returns a copy of v with Y replaced.
func (v Vector3) WithY(y float64) Vector3 {
	v.Y = y
	return v
}

// WithZ returns a copy of v with Z replaced.
func (v Vector3) WithZ(z float64) Vector3 {
	v.Z = z
	return v
}

// Add returns the component-wise sum v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean length of v. Components are scaled by the
// largest magnitude first, so squaring neither overflows nor underflows.
func (v Vector3) Length() float64 {
	m := v.maxAbs()
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return m
	}
	x, y, z := v.X/m, v.Y/m, v.Z/m
	return m * math.Sqrt(x*x+y*y+z*z)
}

// Normalize returns the unit vector pointing in the direction of v. The zero
// vector, and a vector with a NaN or infinite component, normalize to the
// zero vector.
func (v Vector3) Normalize() Vector3 {
	m := v.maxAbs()
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return Vector3{}
	}
	u := Vector3{X: v.X / m, Y: v.Y / m, Z: v.Z / m}
	l := math.Sqrt(u.X*u.X + u.Y*u.Y + u.Z*u.Z)
	return Vector3{X: u.X / l, Y: u.Y / l, Z: u.Z / l}
}

// maxAbs returns the largest component magnitude, NaN if any component is NaN.
func (v Vector3) maxAbs() float64 {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		return math.NaN()
	}
	return math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// String renders v as Vector3(x, y, z).
func (v Vector3) String() string {
	return fmt.Sprintf("Vector3(%s, %s, %s)", FormatFloat(v.X), FormatFloat(v.Y), FormatFloat(v.Z))
}

// FormatFloat formats f with the fewest digits that round-trip.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
