package sem

// Enumeration of conversion contexts.  The legality of dropping or acquiring
// ownership depends on where the conversion occurs.
const (
	ConvOther  = iota // any other context
	ConvAssign        // assignment to a variable
	ConvArg           // binding of a method argument
)

// CanConvert returns whether a value of type s converts to type d in the
// given context.  A conversion is characterized by two axes which must both
// succeed: ownership compatibility and base-type compatibility.  When
// explicit is set, the narrowing conversions permitted by a cast expression
// are also admitted.  When subtypeOnly is set, only identity and subtype
// conversions are considered.
//
// CanConvert itself is a pure predicate; overload scoring probes it freely.
func CanConvert(s, d Type, ctx int, explicit, subtypeOnly bool) bool {
	return ownershipCompatible(s, d, ctx) &&
		baseCompatible(Dropped(s), Dropped(d), explicit, subtypeOnly)
}

// Convert checks a conversion and, if it is legal, applies its side effects
// on the classes involved: an explicit conversion marks the source class as
// needing a virtual destructor (RTTI is required to check the cast), any
// conversion to an owning wrapper marks the destination base class as
// needing one (so destruction through the wrapper dispatches), and any
// conversion crossing the root object boundary marks the non-root side as
// needing object inheritance in emitted code.  Checking commits every
// conversion it accepts through here.
func Convert(s, d Type, ctx int, explicit, subtypeOnly bool) bool {
	if !CanConvert(s, d, ctx, explicit, subtypeOnly) {
		return false
	}

	applyConversionEffects(s, d, explicit)
	return true
}

// ownershipCompatible checks the ownership axis of a conversion.
func ownershipCompatible(s, d Type, ctx int) bool {
	if _, ok := s.(NullType); ok {
		return true
	}

	owningS, owningD := IsOwning(s), IsOwning(d)
	switch {
	case !owningS && owningD:
		// A non-owning value only becomes owned by being boxed: value types
		// box when bound to a method argument; strings box anywhere because
		// the handle they box into shares the instance.
		if _, isStr := s.(StringType); isStr {
			return true
		}

		return IsValue(s) && ctx == ConvArg
	case owningS && !owningD:
		// Ownership is dropped when the destination is a borrowing storage
		// location or parameter.
		return ctx == ConvAssign || ctx == ConvArg
	default:
		return true
	}
}

// baseCompatible checks the base-type axis of a conversion, both types given
// with their owning wrappers dropped.
func baseCompatible(s, d Type, explicit, subtypeOnly bool) bool {
	if _, ok := d.(VoidType); ok {
		return false
	}

	if Equals(s, d) || SubtypeOf(s, d) {
		return true
	}

	if subtypeOnly {
		return false
	}

	if implicitWidens(s, d) {
		return true
	}

	if !explicit {
		return false
	}

	// The reverse of every implicit widening.
	if implicitWidens(d, s) {
		return true
	}

	// Downcasts among reference types.
	if SubtypeOf(d, s) {
		return true
	}

	// Unboxing: the root object class back to a value type.
	if ClassOf(s) == ObjectClass && IsValue(d) {
		return true
	}

	return false
}

// implicitWidens returns whether s widens implicitly to d: the numeric
// widenings, char to int, boxing of a value type, and string to object.
func implicitWidens(s, d Type) bool {
	if st, ok := s.(SimpleType); ok {
		switch {
		case st == SimpleInt && (Equals(d, SimpleFloat) || Equals(d, SimpleDouble)):
			return true
		case st == SimpleFloat && Equals(d, SimpleDouble):
			return true
		case st == SimpleChar && Equals(d, SimpleInt):
			return true
		}

		// Boxing: a value type converts to the root object class.
		return ClassOf(d) == ObjectClass
	}

	// A string converts to the root object class; it is unwrapped back only
	// by an explicit conversion.
	if _, ok := s.(StringType); ok {
		return ClassOf(d) == ObjectClass
	}

	return false
}

// applyConversionEffects applies the class-flag side effects of a conversion
// that has been found legal.
func applyConversionEffects(s, d Type, explicit bool) {
	sc, dc := ClassOf(s), ClassOf(Dropped(d))

	if explicit && sc != nil {
		sc.VirtualNeeded = true
	}

	if IsOwning(d) && dc != nil {
		dc.VirtualNeeded = true
	}

	// A conversion crossing the root object boundary forces object
	// inheritance on the non-root side.
	if sc == ObjectClass && dc != nil && dc != ObjectClass {
		dc.ObjectInheritanceNeeded = true
	} else if dc == ObjectClass && sc != nil && sc != ObjectClass {
		sc.ObjectInheritanceNeeded = true
	}
}
