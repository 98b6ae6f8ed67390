package seqid

import "sort"

// Set is an unordered collection of canonical identifiers.
type Set map[string]struct{}

// NewSet builds a Set from the given identifiers. The caller is expected
// to have canonicalized them already.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is a member of the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding every identifier from s and others.
func (s Set) Union(others ...Set) Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, o := range others {
		for id := range o {
			out[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns the identifiers present in both s and other.
func (s Set) Intersect(other Set) Set {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	out := make(Set)
	for id := range small {
		if _, ok := big[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Subtract returns the identifiers of s that are not in other.
func (s Set) Subtract(other Set) Set {
	out := make(Set)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the identifiers in lexicographic order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
