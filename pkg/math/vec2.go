package math

import "fmt"

// Vec2 is a 2D vector. Texture coordinates store u in X and v in Y.
type Vec2 struct {
	X, Y float32
}

// String returns the vector as "<x,y>".
func (v Vec2) String() string {
	return fmt.Sprintf("<%g,%g>", v.X, v.Y)
}

// FlipV mirrors the texture coordinate vertically (v' = 1 - v).
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}
