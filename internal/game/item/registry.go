package item

import "fmt"

// Registry holds all loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*Def
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Def)}
}

// Register adds d to the registry.
//
// Precondition:  d must not be nil and must satisfy d.Validate().
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) Register(d *Def) error {
	if d == nil {
		return fmt.Errorf("item: Registry.Register: def must not be nil")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("item: Registry.Register: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the Def for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*Def, bool) {
	d, ok := r.items[id]
	return d, ok
}

// All returns all registered Defs in unspecified order.
//
// Postcondition: len(result) == number of registered items.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	return out
}
