package model

// ChangeKind distinguishes the three mutation signals a Body can raise.
// External change means coordinates moved but the atom set is stable;
// internal change means atoms were added, removed, or retyped; hydration
// change means the body's hydration shell changed.
type ChangeKind int

const (
	// ChangeExternal: coordinates moved, topology stable.
	ChangeExternal ChangeKind = iota
	// ChangeInternal: atom set changed (add/remove/element change).
	ChangeInternal
	// ChangeHydration: the body's hydration shell changed.
	ChangeHydration
)

// StateManager owns the change bitsets the partial histogram manager polls
// on every calculate() call, and the reset hook that clears them once the
// manager has consumed them. A Body never owns these bits directly: routing
// mutation notifications through an indirection layer instead of a direct
// back-reference avoids a reference cycle between Body and its owning
// manager.
type StateManager interface {
	ExternallyModified() []bool
	InternallyModified() []bool
	HydrationModified() bool
	ResetToFalse()
}

// ChangeSignaller is the handle a Body holds to flip bits in a
// StateManager by index, without the Body owning the StateManager itself.
type ChangeSignaller interface {
	Signal(kind ChangeKind)
}

// BoundSignaller implements ChangeSignaller against a concrete
// StateManager index: it points into the manager by index and depends on
// the manager outliving it.
type BoundSignaller struct {
	manager *InMemoryStateManager
	index   int
}

// Signal flips the bit this signaller is bound to.
func (b *BoundSignaller) Signal(kind ChangeKind) {
	switch kind {
	case ChangeExternal:
		b.manager.external[b.index] = true
	case ChangeInternal:
		b.manager.internal[b.index] = true
		b.manager.external[b.index] = true
	case ChangeHydration:
		b.manager.hydration = true
	}
}

// InMemoryStateManager is the reference StateManager implementation: plain
// boolean slices indexed by body position.
type InMemoryStateManager struct {
	external  []bool
	internal  []bool
	hydration bool
}

// NewInMemoryStateManager allocates a state manager for k bodies, with
// every bit initialized to true so the first calculate() treats the whole
// model as modified.
func NewInMemoryStateManager(k int) *InMemoryStateManager {
	m := &InMemoryStateManager{
		external:  make([]bool, k),
		internal:  make([]bool, k),
		hydration: true,
	}
	for i := range m.external {
		m.external[i] = true
		m.internal[i] = true
	}
	return m
}

func (m *InMemoryStateManager) ExternallyModified() []bool { return m.external }
func (m *InMemoryStateManager) InternallyModified() []bool { return m.internal }
func (m *InMemoryStateManager) HydrationModified() bool    { return m.hydration }

func (m *InMemoryStateManager) ResetToFalse() {
	for i := range m.external {
		m.external[i] = false
		m.internal[i] = false
	}
	m.hydration = false
}

// Signaller returns a ChangeSignaller bound to body index i, for a Body's
// mutation paths to call into.
func (m *InMemoryStateManager) Signaller(i int) *BoundSignaller {
	return &BoundSignaller{manager: m, index: i}
}

// Body owns an ordered, stable sequence of atoms, an optional hydration
// shell, a symmetry descriptor, and the signaller it reports changes
// through. A body with zero atoms is a valid input, not an error: a
// structure-file adapter that drops every atom of a body (a fully
// excluded hetero-group, say) still produces a Body, just an empty one,
// and every manager's sweep treats it as contributing no pairs.
type Body struct {
	UID       uint64
	Atoms     []AtomFF
	Waters    []Water
	Symmetry  []SymmetryOperator
	Signaller ChangeSignaller
}

// ExpandedCount returns n*(1+sum(k_i)), the fully-materialized atom count
// this body's symmetry implies.
func (b *Body) ExpandedCount() int {
	n := len(b.Atoms)
	total := n
	for _, op := range b.Symmetry {
		total += n * op.Repeats
	}
	return total
}

// AtomicModel is the read-only snapshot the histogram managers consume:
// all bodies plus a flattened view of every body's hydration shell.
type AtomicModel interface {
	Bodies() []*Body
	Waters() []Water
}

// InMemoryModel is the reference AtomicModel: a plain slice of bodies, with
// Waters() a concatenation of each body's hydration shell.
type InMemoryModel struct {
	BodyList []*Body
}

func (m *InMemoryModel) Bodies() []*Body { return m.BodyList }

func (m *InMemoryModel) Waters() []Water {
	var out []Water
	for _, b := range m.BodyList {
		out = append(out, b.Waters...)
	}
	return out
}
