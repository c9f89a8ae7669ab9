package naming

import (
	"sort"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// Assign runs the assignment algorithm over the given namespace trees
// and returns the frozen name-to-string mapping. Fixed names assign
// immediately; afterwards the loop repeatedly picks namespaces whose
// forbidden names are fully assigned and batch-assigns their ready
// names, grouped by (order, namer), until no progress remains.
func Assign(roots ...*Namespace) (map[Name]string, error) {
	var namespaces []*Namespace
	for _, root := range roots {
		namespaces = append(namespaces, root.descendants()...)
	}

	assigned := map[Name]string{}
	total := 0
	for _, ns := range namespaces {
		for _, member := range ns.members {
			total++
			if fixed, ok := member.(*FixedName); ok {
				assigned[member] = fixed.Styled()
			}
		}
	}

	lookup := func(n Name) string {
		styled, ok := assigned[n]
		errors.MessageAssert(ok, "name dependency looked up before assignment")
		return styled
	}

	for len(assigned) < total {
		progress := false
		for _, ns := range namespaces {
			if !forbiddenAssigned(ns, assigned) {
				continue
			}
			ready := readyNames(ns, assigned)
			if len(ready) == 0 {
				continue
			}
			assignReady(ns, ready, assigned, lookup)
			progress = true
		}
		if !progress {
			return nil, errors.Internalf("name assignment stuck with %d of %d names assigned", len(assigned), total)
		}
	}
	return assigned, nil
}

// forbiddenAssigned reports whether every member of every (transitively)
// forbidden namespace already has its name.
func forbiddenAssigned(ns *Namespace, assigned map[Name]string) bool {
	for _, f := range ns.forbiddenClosure() {
		for _, member := range f.members {
			if _, ok := assigned[member]; !ok {
				return false
			}
		}
	}
	return true
}

// readyNames returns the unassigned members whose dependencies are all
// assigned.
func readyNames(ns *Namespace, assigned map[Name]string) []Name {
	var ready []Name
	for _, member := range ns.members {
		if _, done := assigned[member]; done {
			continue
		}
		ok := true
		for _, dep := range member.Dependencies() {
			if _, done := assigned[dep]; !done {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, member)
		}
	}
	return ready
}

// assignReady groups the ready names by (order, namer) and runs each
// group's batch assignment against the namespace's forbidden names.
func assignReady(ns *Namespace, ready []Name, assigned map[Name]string, lookup func(Name) string) {
	type groupKey struct {
		order int
		namer *Namer
	}
	groups := map[groupKey][]Name{}
	var keys []groupKey
	for _, name := range ready {
		key := groupKey{order: name.Order(), namer: name.Namer()}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], name)
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].order < keys[j].order })

	forbidden := forbiddenStrings(ns, assigned)

	for _, key := range keys {
		batch := groups[key]
		if key.namer == nil {
			// Fixed names assigned up front; what remains are
			// associated names, which take their transformed sponsor
			// string directly.
			for _, name := range batch {
				proposals := name.Proposals(lookup)
				errors.MessageAssert(len(proposals) == 1, "unnamed batch entry with several proposals")
				assigned[name] = proposals[0]
			}
			continue
		}
		proposals := map[Name][]string{}
		for _, name := range batch {
			proposals[name] = name.Proposals(lookup)
		}
		for name, styled := range key.namer.AssignNames(batch, proposals, forbidden) {
			assigned[name] = styled
			forbidden[styled] = struct{}{}
		}
	}
}

// forbiddenStrings gathers the styled names this namespace must not
// collide with: its own assigned members and those of its forbidden
// closure.
func forbiddenStrings(ns *Namespace, assigned map[Name]string) map[string]struct{} {
	out := map[string]struct{}{}
	collect := func(n *Namespace) {
		for _, member := range n.members {
			if styled, ok := assigned[member]; ok {
				out[styled] = struct{}{}
			}
		}
	}
	collect(ns)
	for _, f := range ns.forbiddenClosure() {
		collect(f)
	}
	return out
}
