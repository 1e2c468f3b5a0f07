package layout

// std140 placement rules for the closed member set supported in uniform
// blocks: scalars, vectors, column-major matrices, and arrays of those.
//
// Reference: OpenGL 4.6 core spec §7.6.2.2 "Standard Uniform Block Layout".

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
//
// Parameters:
//   - alignment: the required alignment (must be a power of two)
//   - value: the value to align
//
// Returns:
//   - int: value rounded up to the next multiple of alignment
func roundUpAlign(alignment, value int) int {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// std140VectorLayout returns the base alignment and size of a scalar or
// vector of the given component count. In std140, vec3 aligns like vec4.
//
// Parameters:
//   - components: 1 for scalars, 2-4 for vectors
//
// Returns:
//   - align: the base alignment in bytes
//   - size: the size in bytes
func std140VectorLayout(components int) (align, size int) {
	size = components * 4
	switch components {
	case 1:
		align = 4
	case 2:
		align = 8
	default:
		align = 16
	}
	return align, size
}

// std140MemberLayout computes the alignment, total size, and array/matrix
// stride of one block member under std140 rules.
//
// Matrices are laid out as arrays of column vectors, so a matrix member's
// stride is its column stride and an array-of-matrices member's stride is
// the full per-element size. Array element strides round up to 16 bytes.
//
// Parameters:
//   - components: component count per column (1 scalar, 2-4 vector)
//   - columns: column count; 1 for non-matrix members
//   - arrayLen: array element count; 0 for non-array members
//
// Returns:
//   - align: the member's base alignment
//   - size: the member's total byte size including trailing array padding
//   - stride: the array stride (or matrix column stride), 0 when neither
func std140MemberLayout(components, columns, arrayLen int) (align, size, stride int) {
	vecAlign, vecSize := std140VectorLayout(components)

	if columns <= 1 && arrayLen == 0 {
		return vecAlign, vecSize, 0
	}

	// Columns of a matrix and elements of an array both round their stride
	// up to a vec4 boundary.
	colStride := roundUpAlign(16, vecSize)

	if columns > 1 {
		matSize := columns * colStride
		if arrayLen == 0 {
			return 16, matSize, colStride
		}
		return 16, arrayLen * matSize, matSize
	}

	elemStride := roundUpAlign(16, vecSize)
	return 16, arrayLen * elemStride, elemStride
}
