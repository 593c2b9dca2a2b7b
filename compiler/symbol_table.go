package compiler

// Address is the runtime location of a bound name: climb Frame enclosing
// frames (0 is the current frame), then index Slot within that frame.
type Address struct {
	Frame int
	Slot  int
}

// SymbolTable is a persistent, forkable chain of scope frames used to map
// names to environment addresses. Each table owns exactly one frame, the
// innermost; enclosing frames are reached through the parent chain.
//
// Fork shares the receiver's frames with the new child without copying
// them. A fork captures the receiver's frame as it is at the time of the
// call, so names bound in the receiver afterwards are not visible through
// the fork, and names bound in the fork are never visible to the receiver
// or to sibling forks. Sibling forks may therefore be used from separate
// goroutines; a single table is not safe for concurrent Bind calls.
type SymbolTable struct {
	parent *SymbolTable
	names  []string
	depth  int
}

// NewSymbolTable returns a new root symbol table with one empty frame.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Fork returns a new table with one empty frame, chained to the receiver.
func (t *SymbolTable) Fork() *SymbolTable {
	return &SymbolTable{parent: t.snapshot(), depth: t.depth + 1}
}

// snapshot returns a view of the table whose frame cannot observe later
// binds on t. The three-index slice caps the shared backing array, so an
// append on t never writes into memory visible through the snapshot.
func (t *SymbolTable) snapshot() *SymbolTable {
	return &SymbolTable{
		parent: t.parent,
		names:  t.names[:len(t.names):len(t.names)],
		depth:  t.depth,
	}
}

// Bind assigns the next free slot in the innermost frame to name and
// returns its address. Binding a name that is already bound in this frame
// creates a new, later slot, which wins on subsequent lookups.
func (t *SymbolTable) Bind(name string) Address {
	t.names = append(t.names, name)
	return Address{Frame: 0, Slot: len(t.names) - 1}
}

// Lookup resolves name against the innermost frame and then each enclosing
// frame outward. Within a frame the most recently bound slot wins. The
// returned frame distance is relative to this table.
func (t *SymbolTable) Lookup(name string) (Address, bool) {
	frame := 0
	for current := t; current != nil; current = current.parent {
		for slot := len(current.names) - 1; slot >= 0; slot-- {
			if current.names[slot] == name {
				return Address{Frame: frame, Slot: slot}, true
			}
		}
		frame++
	}
	return Address{}, false
}

// Parent returns the table of the enclosing frame, or nil for a root table.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Depth returns the number of enclosing frames. A root table has depth 0.
func (t *SymbolTable) Depth() int {
	return t.depth
}

// Count returns the number of slots in the innermost frame.
func (t *SymbolTable) Count() int {
	return len(t.names)
}

// Names returns every name visible from this table, innermost frame first,
// without duplicates. This is used for "Did you mean?" suggestions.
func (t *SymbolTable) Names() []string {
	seen := map[string]bool{}
	var names []string
	for current := t; current != nil; current = current.parent {
		for slot := len(current.names) - 1; slot >= 0; slot-- {
			name := current.names[slot]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
