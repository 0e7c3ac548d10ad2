package sem

import (
	"testing"

	"github.com/nalgeon/be"
)

// testHierarchy installs a small class tree: Base <- Derived, plus Other.
func testHierarchy() (*Class, *Class, *Class) {
	ResetRegistry()

	base := &Class{Name: "Base", Parent: ObjectClass}
	ObjectClass.Subclasses = append(ObjectClass.Subclasses, base)
	DeclareClass(base)

	derived := &Class{Name: "Derived", Parent: base}
	base.Subclasses = append(base.Subclasses, derived)
	DeclareClass(derived)

	other := &Class{Name: "Other", Parent: ObjectClass}
	ObjectClass.Subclasses = append(ObjectClass.Subclasses, other)
	DeclareClass(other)

	return base, derived, other
}

func TestConvertIdentityAndWidening(t *testing.T) {
	testHierarchy()

	be.True(t, CanConvert(SimpleInt, SimpleInt, ConvOther, false, false))
	be.True(t, CanConvert(SimpleInt, SimpleFloat, ConvOther, false, false))
	be.True(t, CanConvert(SimpleInt, SimpleDouble, ConvOther, false, false))
	be.True(t, CanConvert(SimpleFloat, SimpleDouble, ConvOther, false, false))
	be.True(t, CanConvert(SimpleChar, SimpleInt, ConvOther, false, false))

	// Narrowing requires an explicit conversion.
	be.True(t, !CanConvert(SimpleDouble, SimpleInt, ConvOther, false, false))
	be.True(t, CanConvert(SimpleDouble, SimpleInt, ConvOther, true, false))
	be.True(t, !CanConvert(SimpleInt, SimpleChar, ConvOther, false, false))
	be.True(t, CanConvert(SimpleInt, SimpleChar, ConvOther, true, false))
}

func TestConvertSubtyping(t *testing.T) {
	base, derived, other := testHierarchy()

	be.True(t, CanConvert(derived, base, ConvOther, false, false))
	be.True(t, !CanConvert(base, derived, ConvOther, false, false))
	be.True(t, CanConvert(base, derived, ConvOther, true, false))
	be.True(t, !CanConvert(other, base, ConvOther, true, false))

	// Null converts to any reference type.
	be.True(t, CanConvert(NullType{}, base, ConvOther, false, false))
	be.True(t, CanConvert(NullType{}, Owned(base), ConvOther, false, false))
}

func TestConvertSubtypeOnly(t *testing.T) {
	base, derived, _ := testHierarchy()

	be.True(t, CanConvert(derived, base, ConvOther, false, true))
	be.True(t, !CanConvert(SimpleInt, SimpleDouble, ConvOther, false, true))
}

func TestConvertOwnershipAxis(t *testing.T) {
	base, _, _ := testHierarchy()

	// Owning drops to non-owning only in assignment and argument contexts.
	be.True(t, CanConvert(Owned(base), base, ConvAssign, false, false))
	be.True(t, CanConvert(Owned(base), base, ConvArg, false, false))
	be.True(t, !CanConvert(Owned(base), base, ConvOther, false, false))

	// Owning to owning is always fine.
	be.True(t, CanConvert(Owned(base), Owned(base), ConvOther, false, false))

	// A non-owning reference never becomes owning.
	be.True(t, !CanConvert(base, Owned(base), ConvAssign, false, false))

	// Boxing a value type produces an owning pointer, but only as a method
	// argument; strings box anywhere.
	be.True(t, CanConvert(SimpleInt, Owned(ObjectClass), ConvArg, false, false))
	be.True(t, !CanConvert(SimpleInt, Owned(ObjectClass), ConvOther, false, false))
	be.True(t, CanConvert(StringType{}, Owned(ObjectClass), ConvAssign, false, false))
}

func TestConvertStringObject(t *testing.T) {
	testHierarchy()

	be.True(t, CanConvert(StringType{}, ObjectClass, ConvOther, false, false))
	be.True(t, !CanConvert(ObjectClass, StringType{}, ConvOther, false, false))
	be.True(t, CanConvert(ObjectClass, StringType{}, ConvOther, true, false))
}

func TestConvertSideEffects(t *testing.T) {
	base, derived, _ := testHierarchy()

	// An explicit conversion marks the source class.
	be.True(t, Convert(base, derived, ConvOther, true, false))
	be.True(t, base.VirtualNeeded)

	// A conversion to an owning wrapper marks the destination base class.
	base2, _, _ := testHierarchy()
	be.True(t, Convert(NullType{}, Owned(base2), ConvOther, false, false))
	be.True(t, base2.VirtualNeeded)

	// A conversion crossing the root object boundary marks the non-root
	// side.
	base3, derived3, _ := testHierarchy()
	be.True(t, Convert(derived3, ObjectClass, ConvAssign, false, false))
	be.True(t, derived3.ObjectInheritanceNeeded)
	be.True(t, !base3.ObjectInheritanceNeeded)
}

func TestSubtypeOfArrays(t *testing.T) {
	base, derived, _ := testHierarchy()

	be.True(t, SubtypeOf(&ArrayType{Elem: base}, &ArrayType{Elem: base}))
	be.True(t, !SubtypeOf(&ArrayType{Elem: derived}, &ArrayType{Elem: base}))
	be.True(t, SubtypeOf(&ArrayType{Elem: base}, ObjectClass))
	be.True(t, !SubtypeOf(base, &ArrayType{Elem: base}))
}
