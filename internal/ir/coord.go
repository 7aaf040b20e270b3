package ir

import "fmt"

// CoordAxisMax is the inclusive upper bound for each coordinate axis.
// The execution engine addresses a fixed 32x32x32 toroidal lattice, so
// declared placements must land in [0, 31] on every axis.
const CoordAxisMax = 31

// Coord is a point in the bounded 3-D placement space.
//
// Coord is an immutable value type: equality and map-key hashing are
// structural, and all consumers copy rather than alias.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NewCoord returns the coordinate (x, y, z).
func NewCoord(x, y, z int) Coord {
	return Coord{X: x, Y: y, Z: z}
}

// Valid reports whether every axis lies in [0, CoordAxisMax].
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X <= CoordAxisMax &&
		c.Y >= 0 && c.Y <= CoordAxisMax &&
		c.Z >= 0 && c.Z <= CoordAxisMax
}

// String renders the coordinate as "(x, y, z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}
