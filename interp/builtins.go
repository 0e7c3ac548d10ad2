package interp

import (
	"fmt"
	"strings"

	"sablec/sem"
)

// callBuiltin executes an extern or synthesized member natively.
func (it *Interp) callBuiltin(m *sem.Member, this *Object, args []Value) Value {
	// Synthesized and extern constructors initialize nothing.
	if m.Kind == sem.MemberConstructor {
		return nil
	}

	if m.Owner == sem.StdClass {
		return it.callStd(m, args)
	}

	switch m.Name {
	case "Equals":
		if len(args) == 1 {
			return this == args[0]
		}
	case "GetHashCode":
		if this != nil {
			return this.id
		}
	case "ToString":
		return stringify(this)
	case "get_Count":
		// Arrays reach here only through an object-typed view.
		if arr, ok := Value(this).(*ArrayVal); ok {
			return int32(len(arr.Items))
		}
	}

	it.fail("unsupported construct: extern member `%s`", m.QualName())
	return nil
}

// callBuiltinOn executes a builtin member of a non-object receiver: a string
// or an array value.
func (it *Interp) callBuiltinOn(m *sem.Member, recv Value, args []Value) Value {
	switch r := recv.(type) {
	case string:
		return it.stringMember(m, r, args)
	case *ArrayVal:
		if m.Name == "get_Count" {
			return int32(len(r.Items))
		}
	}

	it.fail("unsupported construct: member `%s`", m.Name)
	return nil
}

func (it *Interp) stringMember(m *sem.Member, s string, args []Value) Value {
	runes := []rune(s)

	switch m.Name {
	case "get_Length":
		return int32(len(runes))
	case "get_Item", "CharAt":
		i := int(args[0].(int32))
		if i < 0 || i >= len(runes) {
			it.fail("string index %d out of range", i)
		}

		return Char(runes[i])
	case "Substring":
		start := int(args[0].(int32))
		length := int(args[1].(int32))
		if start < 0 || length < 0 || start+length > len(runes) {
			it.fail("substring out of range")
		}

		return string(runes[start : start+length])
	case "IndexOf":
		c := rune(args[0].(Char))
		for i, r := range runes {
			if r == c {
				return int32(i)
			}
		}

		return int32(-1)
	case "Equals":
		other, ok := args[0].(string)
		return ok && s == other
	case "ToString":
		return s
	case "GetHashCode":
		var h int32
		for _, r := range runes {
			h = h*31 + int32(r)
		}

		return h
	}

	it.fail("unsupported construct: string member `%s`", m.Name)
	return nil
}

// callStd executes one of the built-in static library methods.
func (it *Interp) callStd(m *sem.Member, args []Value) Value {
	switch m.Name {
	case "Print":
		fmt.Fprint(it.out, stringifyStd(args[0]))
	case "PrintLine":
		if len(args) == 1 {
			fmt.Fprintln(it.out, stringifyStd(args[0]))
		} else {
			fmt.Fprintln(it.out)
		}
	case "ReadLine":
		line, err := it.in.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}

		return strings.TrimRight(line, "\r\n")
	default:
		it.fail("unsupported construct: `Std.%s`", m.Name)
	}

	return nil
}

// stringifyStd renders a value the way the runtime's Print does.
func stringifyStd(v Value) string {
	return stringify(v)
}
