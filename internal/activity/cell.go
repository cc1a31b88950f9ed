package activity

// cell is a lazily resolved value derived from a source reference.
// It has exactly two states: unresolved source and resolved value.
// Assigning a new source discards any resolved value, so the value is
// recomputed at most once per source assignment.
type cell[T any] struct {
	source   string
	resolved bool
	value    T
}

func (c *cell[T]) set(source string) {
	var zero T
	c.source = source
	c.resolved = false
	c.value = zero
}

func (c *cell[T]) get(resolve func(source string) (T, error)) (T, error) {
	if c.resolved {
		return c.value, nil
	}
	v, err := resolve(c.source)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.resolved = true
	return v, nil
}
