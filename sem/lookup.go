package sem

// Arg describes an actual argument at a call site for overload scoring: its
// type and its passing mode.
type Arg struct {
	Type Type
	Mode int // LocalVar for a plain value argument, ParamRef, or ParamOut
}

// Enumeration of lookup outcomes.
const (
	LookupFound = iota
	LookupNone
	LookupAmbiguous
	LookupInaccessible
)

// scoreInaccessible is the score penalty for a candidate that matched but is
// not accessible from the requesting class.
const scoreInaccessible = 100

// scoreNoBind is the per-argument penalty for an argument that cannot bind
// to its parameter at all; an argument binding through an implicit
// conversion costs one, so exact candidates always win.
const scoreNoBind = 20

// LookupMember resolves a member of class c with the given kind and name as
// seen from the class from (nil outside any class).  Overload selection
// scores every candidate along the inheritance chain and picks the unique
// lowest-score one; two perfect candidates at the same depth are ambiguous.
// Methods marked override are skipped unless withOverrides is set:
// resolution always targets the declared, not overriding, member.
func LookupMember(c *Class, kind int, name string, args []Arg, from *Class, withOverrides bool) (*Member, int) {
	var best *Member
	bestScore := -1
	ambiguous := false

	for k := c; k != nil; k = k.Parent {
		for _, m := range k.Members {
			if m.Kind != kind || m.Name != name {
				continue
			}

			if m.Override && !withOverrides {
				continue
			}

			// Private members are invisible outside their defining class.
			if m.Access == AccessPrivate && from != k {
				continue
			}

			score := scoreCandidate(m, args, from)
			if best == nil || score < bestScore {
				best = m
				bestScore = score
				ambiguous = false
			} else if score == bestScore && bestScore == 0 {
				ambiguous = true
			}
		}

		// The search terminates as soon as a perfect candidate was found and
		// no other was seen at the same depth.
		if bestScore == 0 {
			break
		}
	}

	switch {
	case best == nil:
		return nil, LookupNone
	case bestScore%scoreInaccessible >= scoreNoBind:
		// The best candidate's arguments don't bind: no find at all.
		return best, LookupNone
	case ambiguous:
		return best, LookupAmbiguous
	case bestScore >= scoreInaccessible:
		return best, LookupInaccessible
	default:
		return best, LookupFound
	}
}

// LookupField resolves a field, property, or indexer-free member by name.
func LookupField(c *Class, name string, from *Class) (*Member, int) {
	if m, status := LookupMember(c, MemberField, name, nil, from, false); status != LookupNone {
		return m, status
	}

	return LookupMember(c, MemberProperty, name, nil, from, false)
}

// scoreCandidate computes the overload score of a candidate member for the
// given arguments: 100 for an inaccessible candidate plus the argument
// binding score computed by countMismatches.
func scoreCandidate(m *Member, args []Arg, from *Class) int {
	score := 0
	if !accessible(m, from) {
		score += scoreInaccessible
	}

	if m.IsCallable() || m.Kind == MemberIndexer {
		score += countMismatches(m.Params, args)
	}

	return score
}

// countMismatches scores the binding of arguments to parameters: zero for an
// exact argument, one for an argument binding through an implicit
// conversion, and the no-bind penalty for everything else, arity differences
// included.
func countMismatches(params []*Local, args []Arg) int {
	mismatches := 0

	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	mismatches += (len(params) - n + len(args) - n) * scoreNoBind

	for i := 0; i < n; i++ {
		p, a := params[i], args[i]

		if p.Mode == ParamRef || p.Mode == ParamOut {
			// Ref and out arguments must match the parameter mode and bind
			// without conversion.
			if a.Mode != p.Mode || !Equals(Dropped(a.Type), Dropped(p.Type)) {
				mismatches += scoreNoBind
			}

			continue
		}

		switch {
		case a.Mode != LocalVar:
			mismatches += scoreNoBind
		case !CanConvert(a.Type, p.Type, ConvArg, false, false):
			mismatches += scoreNoBind
		case Equals(Dropped(a.Type), Dropped(p.Type)):
		default:
			mismatches++
		}
	}

	return mismatches
}

// accessible returns whether m may be accessed from the class from.
func accessible(m *Member, from *Class) bool {
	switch m.Access {
	case AccessPublic:
		return true
	case AccessProtected:
		return from != nil && from.DerivesFrom(m.Owner)
	default:
		return from == m.Owner
	}
}
