// Package names implements the namespace and full-name data model of
// spec.md §3 "Names": NameSpace, FullName and suffix matching.
package names

import "strings"

// NameSpace is an ordered sequence of module-path components. An empty
// NameSpace denotes a local (unqualified) name.
type NameSpace []string

// String joins the namespace components with ".".
func (ns NameSpace) String() string {
	return strings.Join(ns, ".")
}

// Equals reports whether two namespaces have identical components.
func (ns NameSpace) Equals(other NameSpace) bool {
	if len(ns) != len(other) {
		return false
	}
	for i := range ns {
		if ns[i] != other[i] {
			return false
		}
	}
	return true
}

// HasSuffix reports whether ns equals a trailing segment of full — i.e.
// full's last len(ns) components, in order, equal ns.
func (ns NameSpace) HasSuffix(full NameSpace) bool {
	if len(ns) > len(full) {
		return false
	}
	offset := len(full) - len(ns)
	for i := range ns {
		if ns[i] != full[offset+i] {
			return false
		}
	}
	return true
}

// FullName is a namespace-qualified identifier.
type FullName struct {
	NameSpace  NameSpace
	Identifier string
}

// String renders "ns.ident", or just "ident" when the namespace is empty.
func (n FullName) String() string {
	if len(n.NameSpace) == 0 {
		return n.Identifier
	}
	return n.NameSpace.String() + "." + n.Identifier
}

// Equals reports whether both components of two FullNames are equal.
func (n FullName) Equals(other FullName) bool {
	return n.Identifier == other.Identifier && n.NameSpace.Equals(other.NameSpace)
}

// IsSuffix holds when short.Identifier == full.Identifier and short's
// namespace equals a trailing segment of full's namespace — spec.md §3.
func IsSuffix(short, full FullName) bool {
	return short.Identifier == full.Identifier && short.NameSpace.HasSuffix(full.NameSpace)
}

// Local builds an unqualified FullName.
func Local(identifier string) FullName {
	return FullName{Identifier: identifier}
}

// In builds a FullName qualified by the given namespace components.
func In(ns NameSpace, identifier string) FullName {
	return FullName{NameSpace: ns, Identifier: identifier}
}
