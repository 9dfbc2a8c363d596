package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitivesAreSingletons(t *testing.T) {
	a, _ := ByDatatypeName("int")
	require.Same(t, Int, a)
}

func TestEqualStructural(t *testing.T) {
	arr1 := NewArray(Int, 4)
	arr2 := NewArray(Int, 4)
	require.True(t, Equal(arr1, arr2))

	arr3 := NewArray(Int, 5)
	require.False(t, Equal(arr1, arr3))
}

func TestEqualFunctionTypes(t *testing.T) {
	f1 := NewFunction(Int, []*Type{Int, Str})
	f2 := NewFunction(Int, []*Type{Int, Str})
	require.True(t, Equal(f1, f2))

	f3 := NewFunction(Int, []*Type{Str, Int})
	require.False(t, Equal(f1, f3))
}

func TestCompoundDistinctByID(t *testing.T) {
	s1 := NewCompound(CStruct, nil, 2)
	s2 := NewCompound(CStruct, nil, 2)
	require.False(t, Equal(s1, s2), "two distinct struct decls with the same shape are not the same type")
	require.True(t, Equal(s1, s1))
}

func TestCompatibleAnyWithAnything(t *testing.T) {
	require.True(t, Compatible(Any, Int))
	require.True(t, Compatible(Str, Any))
}

func TestCompatibleUnknownPropagates(t *testing.T) {
	require.True(t, Compatible(Unknown, Int))
	require.True(t, Compatible(Str, Unknown))
}

func TestCompatibleSignedUnsignedSameWidth(t *testing.T) {
	require.True(t, Compatible(Int, Uint))
	require.True(t, Compatible(Uint, Int))
	require.True(t, Compatible(Long, Ulong))
}

func TestIncompatibleSignedUnsignedDifferentWidth(t *testing.T) {
	require.False(t, Compatible(Int, Ulong))
}

func TestIncompatibleUnrelatedPrimitives(t *testing.T) {
	require.False(t, Compatible(Str, Bool))
}

func TestArrayDegradesToPointerSizeForUnknownElem(t *testing.T) {
	arr := NewArray(Unknown, 10)
	require.Equal(t, 8, arr.Size)
}
