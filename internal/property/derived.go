package property

type link struct {
	dep Dependency
	id  ListenerID
}

// Derived is a read-only value computed from other properties.
type Derived[T comparable] struct {
	compute   func() T
	value     T
	links     []link
	listeners listeners[T]
}

// NewDerived computes the initial value and subscribes to every dependency.
// Dependencies notify in registration order, so a Derived created before
// other listeners of the same dependency is always recomputed first.
func NewDerived[T comparable](compute func() T, deps ...Dependency) *Derived[T] {
	d := &Derived[T]{compute: compute, value: compute()}
	for _, dep := range deps {
		id := dep.onChange(d.recompute)
		d.links = append(d.links, link{dep: dep, id: id})
	}
	return d
}

func (d *Derived[T]) recompute() {
	v := d.compute()
	if v == d.value {
		return
	}
	old := d.value
	d.value = v
	d.listeners.notify(v, old)
}

func (d *Derived[T]) Get() T { return d.value }

func (d *Derived[T]) Link(fn Listener[T]) ListenerID {
	id := d.listeners.add(fn)
	fn(d.value, d.value)
	return id
}

func (d *Derived[T]) LazyLink(fn Listener[T]) ListenerID {
	return d.listeners.add(fn)
}

func (d *Derived[T]) Unlink(id ListenerID) bool {
	return d.listeners.remove(id)
}

func (d *Derived[T]) ListenerCount() int {
	return len(d.listeners.entries)
}

// Dispose detaches from all dependencies. The last value stays readable.
func (d *Derived[T]) Dispose() {
	for _, l := range d.links {
		l.dep.Unlink(l.id)
	}
	d.links = nil
}

func (d *Derived[T]) onChange(fn func()) ListenerID {
	return d.LazyLink(func(T, T) { fn() })
}
