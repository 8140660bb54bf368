package project

import (
	"sort"

	"distpack/pkg/jarname"
)

// Dep pairs a module identity with the file that provides it.
type Dep struct {
	Identity jarname.Identity
	File     string
	// Project names the report that contributed the file; when several
	// projects resolve the same identity, the last merged one wins.
	Project string
}

// ResolvedSet holds at most one file per module identity and iterates in
// canonical identity order regardless of insertion order.
type ResolvedSet struct {
	entries map[jarname.Key]Dep
}

// NewResolvedSet returns an empty set.
func NewResolvedSet() *ResolvedSet {
	return &ResolvedSet{entries: make(map[jarname.Key]Dep)}
}

// Put inserts a dependency, overwriting any earlier entry with the same
// identity key.
func (s *ResolvedSet) Put(dep Dep) {
	s.entries[dep.Identity.Key()] = dep
}

// Len reports the number of distinct identities in the set.
func (s *ResolvedSet) Len() int {
	return len(s.entries)
}

// Deps returns the dependencies ordered by organization, name, revision,
// classifier.
func (s *ResolvedSet) Deps() []Dep {
	deps := make([]Dep, 0, len(s.entries))
	for _, dep := range s.entries {
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Identity.Less(deps[j].Identity)
	})
	return deps
}
