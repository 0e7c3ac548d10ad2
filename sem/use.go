package sem

import "sablec/report"

// AccessRecord records a single read of a local or of an owning field at a
// CFG point.  The use-before-init and ownership-transfer checks walk the CFG
// backwards from every record.
type AccessRecord struct {
	// The local read, or nil for a field access.
	Local *Local

	// The owning field read; only owning fields are recorded.
	Field *Member

	// The CFG point at which the read occurs.
	At Point

	// The span of the reading expression, for diagnostics.
	Span *report.TextSpan
}
