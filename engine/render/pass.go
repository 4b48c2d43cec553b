package render

import (
	"fmt"
	"sort"
)

// Pass is the part of a render pass the registry needs to order it.
type Pass interface {
	Name() string
	Priority() int
}

// Registry keeps passes ordered by ascending priority. Passes with equal
// priority run in registration order.
type Registry[P Pass] struct {
	passes []P
}

func (r *Registry[P]) Register(p P) error {
	for _, q := range r.passes {
		if q.Name() == p.Name() {
			return fmt.Errorf("render: pass %q already registered", p.Name())
		}
	}
	r.passes = append(r.passes, p)
	sort.SliceStable(r.passes, func(i, j int) bool {
		return r.passes[i].Priority() < r.passes[j].Priority()
	})
	return nil
}

func (r *Registry[P]) Remove(name string) bool {
	for i, p := range r.passes {
		if p.Name() == name {
			r.passes = append(r.passes[:i], r.passes[i+1:]...)
			return true
		}
	}
	return false
}

// Passes returns the passes in execution order.
func (r *Registry[P]) Passes() []P { return r.passes }

func (r *Registry[P]) Len() int { return len(r.passes) }
