package diag

// Error codes, grouped by the category that owns them. The taxonomy mirrors
// the teacher's phase-prefixed numbering scheme, regrouped under spec.md
// §6's closed category set rather than compiler phase.
const (
	// Parse — surfaced from the parser collaborator, passed through
	// unchanged so downstream tooling sees one diagnostic shape.
	ParseUnexpectedToken = "PAR001"
	ParseUnclosedDelim   = "PAR002"

	// NameResolution (§4.1)
	NameUnresolved = "NR001" // no imported module defines the short name
	NameAmbiguous  = "NR002" // more than one imported module defines it

	// KindCheck (§4.2)
	KindMismatch    = "KC001"
	KindArityWrong  = "KC002"
	KindOccursCheck = "KC003"

	// TypeMismatch (§4.3)
	TypeUnifyFailed  = "TC001"
	TypeOccursCheck  = "TC002"
	TypeEqualityFail = "TC003" // associated-type equality constraint unsolvable

	// NoInstance (§4.4)
	InstanceMissing = "NI001"

	// Overlap (§4.4)
	InstanceOverlap = "OV001"

	// Orphan (§4.4)
	InstanceOrphan = "OR001"

	// Ambiguity (§4.4, §4.5)
	InstanceAmbiguous = "AM001" // two instance selections for one predicate disagree

	// Undetermined (§4.5)
	TypeUndetermined = "UD001" // a specialization demand still carries free type variables

	// Duplicate (§4.1, §4.4)
	DuplicateDecl     = "DU001" // two declarations claim the same capital name
	DuplicateExport   = "DU002"
	DuplicateInstance = "DU003" // same trait/head pair declared twice

	// Shape (§3, §4.4)
	ShapeMalformedType  = "SH001" // ill-formed struct/union/trait declaration
	ShapeCircularAlias  = "SH002" // circular trait alias
	ShapeUnrelatedMethod = "SH003" // method in an instance body not declared by the trait

	// IO (§6) — always a warning, never fatal.
	CacheReadFailed  = "IO001"
	CacheWriteFailed = "IO002"
)

// CodeInfo describes one error code for tooling that wants a human-readable
// registry rather than just the bare constant.
type CodeInfo struct {
	Code        string
	Category    Category
	Description string
}

// Codes is the registry of every code declared above, keyed by the code
// itself.
var Codes = map[string]CodeInfo{
	ParseUnexpectedToken: {ParseUnexpectedToken, Parse, "Unexpected token"},
	ParseUnclosedDelim:   {ParseUnclosedDelim, Parse, "Unclosed delimiter"},

	NameUnresolved: {NameUnresolved, NameResolution, "No imported module defines this name"},
	NameAmbiguous:  {NameAmbiguous, NameResolution, "More than one imported module defines this name"},

	KindMismatch:    {KindMismatch, KindCheck, "Kind mismatch"},
	KindArityWrong:  {KindArityWrong, KindCheck, "Wrong number of type arguments"},
	KindOccursCheck: {KindOccursCheck, KindCheck, "Kind variable occurs in its own solution"},

	TypeUnifyFailed:  {TypeUnifyFailed, TypeMismatch, "Types do not unify"},
	TypeOccursCheck:  {TypeOccursCheck, TypeMismatch, "Type variable occurs in its own solution"},
	TypeEqualityFail: {TypeEqualityFail, TypeMismatch, "Associated-type equality constraint unsolvable"},

	InstanceMissing: {InstanceMissing, NoInstance, "No instance satisfies this predicate"},

	InstanceOverlap: {InstanceOverlap, Overlap, "Overlapping instances"},

	InstanceOrphan: {InstanceOrphan, Orphan, "Instance declared outside the trait's or head tycon's module"},

	InstanceAmbiguous: {InstanceAmbiguous, Ambiguity, "Ambiguous instance selection"},

	TypeUndetermined: {TypeUndetermined, Undetermined, "Type not fully determined at specialization"},

	DuplicateDecl:     {DuplicateDecl, Duplicate, "Duplicate top-level declaration"},
	DuplicateExport:   {DuplicateExport, Duplicate, "Duplicate export"},
	DuplicateInstance: {DuplicateInstance, Duplicate, "Duplicate instance for this trait/head pair"},

	ShapeMalformedType:   {ShapeMalformedType, Shape, "Malformed type declaration"},
	ShapeCircularAlias:   {ShapeCircularAlias, Shape, "Circular trait alias"},
	ShapeUnrelatedMethod: {ShapeUnrelatedMethod, Shape, "Method not declared by the trait"},

	CacheReadFailed:  {CacheReadFailed, IO, "Elaboration cache read failed"},
	CacheWriteFailed: {CacheWriteFailed, IO, "Elaboration cache write failed"},
}

// Info looks up a code's registry entry.
func Info(code string) (CodeInfo, bool) {
	info, ok := Codes[code]
	return info, ok
}
