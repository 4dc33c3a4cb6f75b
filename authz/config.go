package authz

// Visitor is called once per item during enumeration. Returning false
// stops enumeration early; true continues.
type Visitor func(a, b string) bool

// Config is a read-only, ordered view over a parsed rules document.
// authz never parses rules files itself; it only ever consumes a
// Config built by an external collaborator (see internal/rules for
// the concrete gopkg.in/ini.v1-backed implementation).
//
// Implementations must preserve the document's natural order:
// EnumerateSections in file order, EnumerateEntries in
// within-section file order. Ordering does not affect any query
// answer, but a faithful Config still exposes it, since validator
// error messages read far better when they can name "the second entry
// in section X" deterministically.
type Config interface {
	// HasSection reports whether the document defines a section with
	// this exact name.
	HasSection(name string) bool

	// EnumerateSections calls visit(name, "") for each section in
	// order, stopping early if visit returns false.
	EnumerateSections(visit Visitor)

	// EnumerateEntries calls visit(key, value) for each entry in the
	// named section, in order, stopping early if visit returns false.
	// Calling it on an undefined section enumerates zero entries.
	EnumerateEntries(section string, visit Visitor)

	// Get returns the value of key within section, and whether it was
	// present at all.
	Get(section, key string) (string, bool)
}
