package naming

// Namespace is one scope of the namespace tree: it owns names and
// forbids collisions with the members of other namespaces.
type Namespace struct {
	name      string
	parent    *Namespace
	children  []*Namespace
	members   []Name
	forbidden []*Namespace
}

// NewRootNamespace creates a namespace without a parent.
func NewRootNamespace(name string) *Namespace {
	return &Namespace{name: name}
}

// NewChild creates a nested scope.
func (ns *Namespace) NewChild(name string) *Namespace {
	child := &Namespace{name: name, parent: ns}
	ns.children = append(ns.children, child)
	return child
}

// Name returns the namespace's own label.
func (ns *Namespace) Name() string { return ns.name }

// Add registers a name as owned by this namespace and returns it.
func (ns *Namespace) Add(n Name) Name {
	ns.members = append(ns.members, n)
	return n
}

// AddForbidden declares that members of other must not collide with
// members of this namespace.
func (ns *Namespace) AddForbidden(other *Namespace) {
	ns.forbidden = append(ns.forbidden, other)
}

// Members returns the owned names in insertion order.
func (ns *Namespace) Members() []Name {
	return ns.members
}

// forbiddenClosure walks the forbidden relation transitively.
func (ns *Namespace) forbiddenClosure() []*Namespace {
	var out []*Namespace
	seen := map[*Namespace]struct{}{}
	var walk func(n *Namespace)
	walk = func(n *Namespace) {
		for _, f := range n.forbidden {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
			walk(f)
		}
	}
	walk(ns)
	return out
}

// descendants collects the namespace and every child transitively, in
// creation order.
func (ns *Namespace) descendants() []*Namespace {
	out := []*Namespace{ns}
	for _, c := range ns.children {
		out = append(out, c.descendants()...)
	}
	return out
}
