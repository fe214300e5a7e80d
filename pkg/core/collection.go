package core

// Collection is an identifier->Profile map kept consistent with an explicit
// order list. The map and the order always hold exactly the same key set.
// A Collection is not safe for concurrent use; backends guard it.
type Collection struct {
	profiles map[Identifier]Profile
	order    []Identifier
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{profiles: make(map[Identifier]Profile)}
}

// Len returns the number of profiles.
func (c *Collection) Len() int { return len(c.order) }

// Has reports whether id is present.
func (c *Collection) Has(id Identifier) bool {
	_, ok := c.profiles[id]
	return ok
}

// Order returns a copy of the order list.
func (c *Collection) Order() []Identifier {
	return append([]Identifier(nil), c.order...)
}

// Get returns a deep copy of the profile stored under id.
func (c *Collection) Get(id Identifier) (Profile, error) {
	p, ok := c.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p.Clone(), nil
}

// Put replaces the profile in place, or appends it when id is new.
// It reports whether the profile was inserted.
func (c *Collection) Put(id Identifier, p Profile) bool {
	_, exists := c.profiles[id]
	c.profiles[id] = p.Clone()
	if !exists {
		c.order = append(c.order, id)
	}
	return !exists
}

// Update applies fn to the profile stored under id, creating a
// DefaultProfile first when id is new (appended to the order).
func (c *Collection) Update(id Identifier, fn func(*Profile)) {
	p, ok := c.profiles[id]
	if !ok {
		p = DefaultProfile()
		c.order = append(c.order, id)
	}
	fn(&p)
	c.profiles[id] = p
}

// Remove deletes id from both the map and the order.
func (c *Collection) Remove(id Identifier) error {
	if _, ok := c.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(c.profiles, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reorder applies ApplyOrder to the order list.
func (c *Collection) Reorder(ids []Identifier) error {
	next, err := ApplyOrder(c.order, ids)
	if err != nil {
		return err
	}
	c.order = next
	return nil
}

// Primers lists id + header in order.
func (c *Collection) Primers() []Primer {
	primers := make([]Primer, 0, len(c.order))
	for _, id := range c.order {
		primers = append(primers, Primer{ID: id, Header: c.profiles[id].Header})
	}
	return primers
}

// Each calls fn for every profile in order. fn must not retain p's slices.
func (c *Collection) Each(fn func(id Identifier, p Profile)) {
	for _, id := range c.order {
		fn(id, c.profiles[id])
	}
}

// Clone returns an independent copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{
		profiles: make(map[Identifier]Profile, len(c.profiles)),
		order:    c.Order(),
	}
	for id, p := range c.profiles {
		out.profiles[id] = p.Clone()
	}
	return out
}
