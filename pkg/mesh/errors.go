package mesh

import (
	"errors"
	"fmt"
)

// ErrStructural matches every StructuralError via errors.Is.
var ErrStructural = errors.New("mesh structural error")

// StructuralError reports a corner index outside its attribute array.
type StructuralError struct {
	Stream   Attribute // Attribute stream the index points into
	Triangle int       // Triangle number in the mesh
	Corner   int       // Corner within the triangle (0-2)
	Index    uint32    // Offending index value
	Len      int       // Length of the target array; valid range is [0, Len)
}

// Error implements error.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d) (triangle %d, corner %d)",
		e.Stream, e.Index, e.Len, e.Triangle, e.Corner)
}

// Is reports whether target is ErrStructural.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}
