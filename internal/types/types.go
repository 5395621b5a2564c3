// Package types implements PLC's fixed primitive type registry: the eight
// named types plus the IntegerIterable convenience type, the Comparable
// virtual supertype, and the Any top type, together with the Assignable
// widening relation the analyzer enforces everywhere a value flows into a
// declared slot.
package types

// Type is a primitive member of PLC's closed type registry.
type Type struct {
	name       string
	targetName string
}

func (t Type) String() string { return t.name }

// TargetName is the identifier used when the Emitter prints this type in
// the target language (e.g. Integer -> "int").
func (t Type) TargetName() string { return t.targetName }

// Equal compares two types by identity within the fixed registry.
func (t Type) Equal(other Type) bool { return t.name == other.name }

var (
	Any             = Type{name: "Any", targetName: "Object"}
	Nil             = Type{name: "Nil", targetName: "void"}
	Comparable      = Type{name: "Comparable", targetName: "Comparable"}
	Integer         = Type{name: "Integer", targetName: "int"}
	Decimal         = Type{name: "Decimal", targetName: "double"}
	Boolean         = Type{name: "Boolean", targetName: "boolean"}
	Character       = Type{name: "Character", targetName: "char"}
	String          = Type{name: "String", targetName: "String"}
	IntegerIterable = Type{name: "IntegerIterable", targetName: "Iterable<Integer>"}
)

// registry maps every declarable type name to its Type value. IntegerIterable
// is deliberately absent: spec.md §3 calls it "a convenience type used only
// for built-in iteration helpers", not a name a PLC program can spell.
var registry = map[string]Type{
	Any.name:        Any,
	Nil.name:        Nil,
	Comparable.name: Comparable,
	Integer.name:    Integer,
	Decimal.name:    Decimal,
	Boolean.name:    Boolean,
	Character.name:  Character,
	String.name:     String,
}

// Lookup resolves a source type name to its Type, reporting whether it is a
// known primitive.
func Lookup(name string) (Type, bool) {
	t, ok := registry[name]
	return t, ok
}

// comparablePrimitives are the concrete types Comparable accepts in the
// Assignable widening relation below.
var comparablePrimitives = map[string]bool{
	Integer.name:   true,
	Decimal.name:   true,
	Character.name: true,
	String.name:    true,
}

// IsComparablePrimitive reports whether t is one of the four orderable
// primitives grouped under the virtual Comparable supertype.
func IsComparablePrimitive(t Type) bool {
	return comparablePrimitives[t.name]
}

// Assignable reports whether a value of type source may be used where a
// value of type target is expected: identity, widening to Any, or widening
// to Comparable from one of its four member primitives.
func Assignable(target, source Type) bool {
	if target.Equal(source) {
		return true
	}
	if target.Equal(Any) {
		return true
	}
	if target.Equal(Comparable) && IsComparablePrimitive(source) {
		return true
	}
	return false
}
