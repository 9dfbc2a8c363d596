// Package types implements the compiler's type system: interned
// primitive singletons plus constructors for array, function, and
// compound (struct/enum/union) types, and the structural equality and
// compatibility relations the semantic analyzer checks against.
package types

// Kind discriminates a Type's payload.
type Kind int

const (
	KUnknown Kind = iota
	KError
	KVoid
	KAny
	KBool
	KInt
	KUint
	KShort
	KUshort
	KLong
	KUlong
	KFloat
	KDecimal
	KStr
	KChar
	KArray
	KFunction
	KCompound
)

// CompoundKind distinguishes struct/enum/union compounds.
type CompoundKind int

const (
	CStruct CompoundKind = iota
	CEnum
	CUnion
)

const pointerSize = 8

// sizeAlign is looked up per primitive Kind to give size_bytes/alignment.
var sizeAlign = map[Kind][2]int{
	KUnknown: {0, 1}, KError: {0, 1}, KVoid: {0, 1}, KAny: {pointerSize, pointerSize},
	KBool: {1, 1}, KChar: {1, 1},
	KShort: {2, 2}, KUshort: {2, 2},
	KInt: {4, 4}, KUint: {4, 4}, KFloat: {4, 4},
	KLong: {8, 8}, KUlong: {8, 8}, KDecimal: {8, 8},
	KStr: {pointerSize, pointerSize},
}

// Type is the compiler's representation of a value's type. Primitive
// instances are singletons per process (see the exported vars below);
// Array/Function/Compound instances are constructed per distinct shape.
type Type struct {
	Kind      Kind
	Size      int
	Alignment int

	// Array
	Elem   *Type
	Length int

	// Function
	Ret    *Type
	Params []*Type

	// Compound
	CKind       CompoundKind
	Scope       interface{} // *symbol.Scope; interface{} avoids an import cycle
	MemberCount int
	CompoundID  int // unique id distinguishing otherwise-identical compound shapes
}

func primitive(k Kind) *Type {
	sa := sizeAlign[k]
	return &Type{Kind: k, Size: sa[0], Alignment: sa[1]}
}

// Primitive singletons, one instance per process, as spec.md §4.6 requires.
var (
	Unknown = primitive(KUnknown)
	Error   = primitive(KError)
	Void    = primitive(KVoid)
	Any     = primitive(KAny)
	Bool    = primitive(KBool)
	Int     = primitive(KInt)
	Uint    = primitive(KUint)
	Short   = primitive(KShort)
	Ushort  = primitive(KUshort)
	Long    = primitive(KLong)
	Ulong   = primitive(KUlong)
	Float   = primitive(KFloat)
	Decimal = primitive(KDecimal)
	Str     = primitive(KStr)
	Char    = primitive(KChar)
)

// ByDatatypeName resolves a surface-language datatype keyword to its
// primitive singleton.
func ByDatatypeName(name string) (*Type, bool) {
	switch name {
	case "int":
		return Int, true
	case "uint":
		return Uint, true
	case "short":
		return Short, true
	case "ushort":
		return Ushort, true
	case "long":
		return Long, true
	case "ulong":
		return Ulong, true
	case "float":
		return Float, true
	case "decimal":
		return Decimal, true
	case "str":
		return Str, true
	case "bool":
		return Bool, true
	case "char":
		return Char, true
	case "void":
		return Void, true
	case "any":
		return Any, true
	}
	return nil, false
}

// NewArray constructs an array type of elem, length elements. Size
// propagates from elem*length when elem has a known size, otherwise
// (dynamic/unknown element) the array degrades to pointer size.
func NewArray(elem *Type, length int) *Type {
	t := &Type{Kind: KArray, Elem: elem, Length: length, Alignment: pointerSize}
	if elem != nil && elem.Size > 0 {
		t.Size = elem.Size * length
	} else {
		t.Size = pointerSize
	}
	return t
}

// NewFunction constructs a function type. Size/alignment are pointer-sized
// (functions are referenced, never stored inline).
func NewFunction(ret *Type, params []*Type) *Type {
	return &Type{Kind: KFunction, Ret: ret, Params: params, Size: pointerSize, Alignment: pointerSize}
}

var nextCompoundID int

// NewCompound constructs a struct/enum/union type bound to scope with
// memberCount members. Size/alignment are pointer-sized: compounds are
// addressed through their owning scope rather than inlined, matching
// the VM's flat int64-operand value model (spec.md §4.9).
func NewCompound(kind CompoundKind, scope interface{}, memberCount int) *Type {
	nextCompoundID++
	return &Type{
		Kind: KCompound, CKind: kind, Scope: scope, MemberCount: memberCount,
		Size: pointerSize, Alignment: pointerSize, CompoundID: nextCompoundID,
	}
}

// Equal is structural equality for arrays (length and element type) and
// functions (return and parameter types); compounds are equal only when
// they share CKind and CompoundID, i.e. come from the same declaration.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KArray:
		return a.Length == b.Length && Equal(a.Elem, b.Elem)
	case KFunction:
		if !Equal(a.Ret, b.Ret) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case KCompound:
		return a.CKind == b.CKind && a.CompoundID == b.CompoundID
	default:
		return true // both primitives of the same Kind
	}
}

// widthRank orders integer widths so {int,uint} compatibility can compare
// "compatible widths" per spec.md §3's invariant.
var widthRank = map[Kind]int{
	KShort: 1, KUshort: 1,
	KInt: 2, KUint: 2,
	KLong: 3, KUlong: 3,
}

func isIntLike(k Kind) bool {
	_, ok := widthRank[k]
	return ok
}

func isSigned(k Kind) bool {
	switch k {
	case KShort, KInt, KLong:
		return true
	}
	return false
}

func isUnsigned(k Kind) bool {
	switch k {
	case KUshort, KUint, KUlong:
		return true
	}
	return false
}

// Compatible is true when Equal holds, or either side is Any (paired with
// a valid value type), or the pair is a signed/unsigned integer pair of
// matching width, or either side is Unknown (propagation during
// inference).
func Compatible(a, b *Type) bool {
	if Equal(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind == KUnknown || b.Kind == KUnknown {
		return true
	}
	if a.Kind == KAny || b.Kind == KAny {
		return true
	}
	if isIntLike(a.Kind) && isIntLike(b.Kind) {
		if (isSigned(a.Kind) && isUnsigned(b.Kind)) || (isUnsigned(a.Kind) && isSigned(b.Kind)) {
			return widthRank[a.Kind] == widthRank[b.Kind]
		}
	}
	return false
}

// String renders a human-readable type name, used in diagnostic messages.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KUnknown:
		return "unknown"
	case KError:
		return "error"
	case KVoid:
		return "void"
	case KAny:
		return "any"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KUint:
		return "uint"
	case KShort:
		return "short"
	case KUshort:
		return "ushort"
	case KLong:
		return "long"
	case KUlong:
		return "ulong"
	case KFloat:
		return "float"
	case KDecimal:
		return "decimal"
	case KStr:
		return "str"
	case KChar:
		return "char"
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KFunction:
		s := "func("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") : " + t.Ret.String()
	case KCompound:
		switch t.CKind {
		case CStruct:
			return "struct"
		case CEnum:
			return "enum"
		default:
			return "union"
		}
	}
	return "?"
}
