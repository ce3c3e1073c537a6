package pagination

import "iter"

// Ordered is an insertion-ordered map from entity key to entity.
// Each key appears once; the first value stored under a key wins.
type Ordered[E any] struct {
	keys  []string
	items map[string]E
}

func newOrdered[E any](capacity int) *Ordered[E] {
	return &Ordered[E]{
		keys:  make([]string, 0, capacity),
		items: make(map[string]E, capacity),
	}
}

// add stores e under key unless the key is already present.
func (o *Ordered[E]) add(key string, e E) bool {
	if _, ok := o.items[key]; ok {
		return false
	}
	o.keys = append(o.keys, key)
	o.items[key] = e
	return true
}

// Len returns the number of entities.
func (o *Ordered[E]) Len() int { return len(o.keys) }

// Keys returns the keys in first-seen order.
func (o *Ordered[E]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the entity stored under key.
func (o *Ordered[E]) Get(key string) (E, bool) {
	e, ok := o.items[key]
	return e, ok
}

// Values returns the entities in first-seen order.
func (o *Ordered[E]) Values() []E {
	out := make([]E, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.items[k])
	}
	return out
}

// All iterates key/entity pairs in first-seen order.
func (o *Ordered[E]) All() iter.Seq2[string, E] {
	return func(yield func(string, E) bool) {
		for _, k := range o.keys {
			if !yield(k, o.items[k]) {
				return
			}
		}
	}
}
