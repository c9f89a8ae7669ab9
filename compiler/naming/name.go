// Package naming assigns collision-free, stylistically correct names to
// every nameable entity of a type graph: namespaces scope the names,
// namers style and de-collide them, and the assignment loop orders the
// work by readiness.
package naming

// Name is one nameable entity awaiting its assigned string.
type Name interface {
	// Order ranks which category is named first when collisions
	// compete; lower orders assign earlier.
	Order() int
	// Namer styles and de-collides this name's proposals; nil for
	// names that carry their styled form directly.
	Namer() *Namer
	// Dependencies are the names that must be assigned before this
	// one's proposals can be computed.
	Dependencies() []Name
	// Proposals returns the raw name candidates, given a lookup for
	// already-assigned dependencies.
	Proposals(lookup func(Name) string) []string
}

// FixedName carries its styled name directly and has no dependencies.
type FixedName struct {
	styled string
	order  int
}

// NewFixedName creates a fixed name.
func NewFixedName(styled string, order int) *FixedName {
	return &FixedName{styled: styled, order: order}
}

func (n *FixedName) Order() int           { return n.order }
func (n *FixedName) Namer() *Namer        { return nil }
func (n *FixedName) Dependencies() []Name { return nil }

func (n *FixedName) Proposals(func(Name) string) []string {
	return []string{n.styled}
}

// Styled returns the fixed styled form.
func (n *FixedName) Styled() string { return n.styled }

// SimpleName proposes a set of raw candidates to its namer.
type SimpleName struct {
	candidates []string
	namer      *Namer
	order      int
}

// NewSimpleName creates a simple name from raw candidates.
func NewSimpleName(candidates []string, namer *Namer, order int) *SimpleName {
	return &SimpleName{candidates: candidates, namer: namer, order: order}
}

func (n *SimpleName) Order() int           { return n.order }
func (n *SimpleName) Namer() *Namer        { return n.namer }
func (n *SimpleName) Dependencies() []Name { return nil }

func (n *SimpleName) Proposals(func(Name) string) []string {
	return n.candidates
}

// DependencyName derives its raw candidate from the assigned strings of
// other names. The dependency set is discovered by a probing run of the
// proposal function at construction.
type DependencyName struct {
	namer   *Namer
	order   int
	propose func(lookup func(Name) string) string
	deps    []Name
}

// NewDependencyName creates a dependency name. The proposal function is
// probed once to record which names it looks up; it must consult the
// same dependencies on every call.
func NewDependencyName(namer *Namer, order int, propose func(lookup func(Name) string) string) *DependencyName {
	var deps []Name
	seen := map[Name]struct{}{}
	probe := func(n Name) string {
		if _, dup := seen[n]; !dup {
			seen[n] = struct{}{}
			deps = append(deps, n)
		}
		return "0"
	}
	propose(probe)
	return &DependencyName{namer: namer, order: order, propose: propose, deps: deps}
}

func (n *DependencyName) Order() int           { return n.order }
func (n *DependencyName) Namer() *Namer        { return n.namer }
func (n *DependencyName) Dependencies() []Name { return n.deps }

func (n *DependencyName) Proposals(lookup func(Name) string) []string {
	return []string{n.propose(lookup)}
}

// AssociatedName is co-named with a sponsor: its styled form transforms
// the sponsor's assigned string and never competes for names on its
// own.
type AssociatedName struct {
	sponsor   Name
	transform func(string) string
	order     int
}

// NewAssociatedName creates a name bound to its sponsor.
func NewAssociatedName(sponsor Name, order int, transform func(string) string) *AssociatedName {
	return &AssociatedName{sponsor: sponsor, transform: transform, order: order}
}

func (n *AssociatedName) Order() int           { return n.order }
func (n *AssociatedName) Namer() *Namer        { return nil }
func (n *AssociatedName) Dependencies() []Name { return []Name{n.sponsor} }

func (n *AssociatedName) Proposals(lookup func(Name) string) []string {
	return []string{n.transform(lookup(n.sponsor))}
}
