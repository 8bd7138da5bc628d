package linarith

import "strconv"

// AtomID identifies an atom within one Registry.
// ConstAtom stands for the constant 1.
type AtomID uint32

// ConstAtom is the reserved id of the constant term.
const ConstAtom AtomID = 0

// Registry assigns stable ids to distinct atoms. Two terms share an id
// when their printed forms are identical. A Registry belongs to a single
// decision run; it is not safe for concurrent use.
type Registry struct {
	ids   map[string]AtomID
	atoms []Term // atoms[id-1]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]AtomID)}
}

// Intern returns the id of t, allocating a new one the first time t is seen.
func (r *Registry) Intern(t Term) AtomID {
	key := t.String()
	if id, ok := r.ids[key]; ok {
		return id
	}
	r.atoms = append(r.atoms, t)
	id := AtomID(len(r.atoms))
	r.ids[key] = id
	return id
}

// Lookup returns the id of t without allocating.
func (r *Registry) Lookup(t Term) (AtomID, bool) {
	id, ok := r.ids[t.String()]
	return id, ok
}

// Atom returns the term registered under id.
// The constant id and unknown ids return nil.
func (r *Registry) Atom(id AtomID) Term {
	if id == ConstAtom || int(id) > len(r.atoms) {
		return nil
	}
	return r.atoms[id-1]
}

// Name returns a printable name for id.
func (r *Registry) Name(id AtomID) string {
	if id == ConstAtom {
		return "1"
	}
	if t := r.Atom(id); t != nil {
		return t.String()
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// Len returns the number of registered atoms, excluding the constant.
func (r *Registry) Len() int {
	return len(r.atoms)
}
