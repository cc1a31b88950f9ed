package worker

import (
	"fmt"
	"slices"
)

// Registry holds named workers in registration order. Registration
// happens at wiring time; lookups afterwards are safe for concurrent
// use.
type Registry struct {
	names   []string
	workers map[string]Worker
}

func NewRegistry() *Registry {
	return &Registry{workers: map[string]Worker{}}
}

// Register adds a worker under a logical name. Registering the same
// name twice is a wiring bug and panics.
func (r *Registry) Register(name string, w Worker) {
	if _, ok := r.workers[name]; ok {
		panic(fmt.Sprintf("worker %q registered twice", name))
	}
	r.names = append(r.names, name)
	r.workers[name] = w
}

// Get returns the worker registered under name.
func (r *Registry) Get(name string) (Worker, error) {
	w, ok := r.workers[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name, Registered: r.Names()}
	}
	return w, nil
}

// Names lists the registered worker names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Pipeline assembles a chained worker from registered entries, tried
// in the given order. Every name must be registered.
func (r *Registry) Pipeline(names ...string) (*Chained, error) {
	c := NewChained()
	for _, name := range names {
		w, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		c.Add(name, w)
	}
	return c, nil
}
