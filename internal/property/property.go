package property

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uint64

// Listener is called with the new value and the value it replaced.
type Listener[T any] func(value, old T)

// Dependency is anything a Derived value can recompute from.
type Dependency interface {
	onChange(fn func()) ListenerID
	Unlink(id ListenerID) bool
}

type entry[T any] struct {
	id ListenerID
	fn Listener[T]
}

// listeners keeps registration order; removal preserves the order of the rest.
type listeners[T any] struct {
	next    ListenerID
	entries []entry[T]
}

func (l *listeners[T]) add(fn Listener[T]) ListenerID {
	l.next++
	l.entries = append(l.entries, entry[T]{id: l.next, fn: fn})
	return l.next
}

func (l *listeners[T]) remove(id ListenerID) bool {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *listeners[T]) notify(value, old T) {
	// snapshot so listeners added or removed during dispatch do not shift the pass
	snapshot := l.entries
	for _, e := range snapshot {
		e.fn(value, old)
	}
}

// Option configures a Property.
type Option[T comparable] func(*Property[T])

// WithValidator rejects values for which fn returns an error. Validation runs
// before the value is stored, so a rejected Set leaves the property untouched.
func WithValidator[T comparable](fn func(T) error) Option[T] {
	return func(p *Property[T]) {
		p.validators = append(p.validators, fn)
	}
}

// WithInvariant installs a constraint that no caller may break. A value
// rejected by fn panics with fn's error from Set and TrySet alike.
func WithInvariant[T comparable](fn func(T) error) Option[T] {
	return func(p *Property[T]) {
		p.invariants = append(p.invariants, fn)
	}
}

// WithName labels the property in validation errors.
func WithName[T comparable](name string) Option[T] {
	return func(p *Property[T]) {
		p.name = name
	}
}

// Property is an observable value.
type Property[T comparable] struct {
	name       string
	value      T
	initial    T
	validators []func(T) error
	invariants []func(T) error
	listeners  listeners[T]
}

// New creates a property holding initial. Validators are not applied to the
// initial value.
func New[T comparable](initial T, opts ...Option[T]) *Property[T] {
	p := &Property[T]{value: initial, initial: initial}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Property[T]) Name() string { return p.name }
func (p *Property[T]) Get() T       { return p.value }
func (p *Property[T]) Initial() T   { return p.initial }

// Set stores v and notifies listeners if it differs from the current value.
// It panics with the validator's error if v is rejected.
func (p *Property[T]) Set(v T) {
	if err := p.TrySet(v); err != nil {
		panic(err)
	}
}

// TrySet is Set returning the validation error instead of panicking.
// Invariant violations still panic.
func (p *Property[T]) TrySet(v T) error {
	if err := p.checkInvariants(v); err != nil {
		panic(err)
	}
	if err := p.validate(v); err != nil {
		return err
	}
	if v == p.value {
		return nil
	}
	old := p.value
	p.value = v
	p.listeners.notify(v, old)
	return nil
}

// Validate reports whether v would be accepted by Set. It never panics.
func (p *Property[T]) Validate(v T) error {
	if err := p.checkInvariants(v); err != nil {
		return err
	}
	return p.validate(v)
}

func (p *Property[T]) checkInvariants(v T) error {
	for _, fn := range p.invariants {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Property[T]) validate(v T) error {
	for _, fn := range p.validators {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// AddValidator installs a constraint on a property that already exists.
// The current value is not checked.
func (p *Property[T]) AddValidator(fn func(T) error) {
	p.validators = append(p.validators, fn)
}

// Reset restores the initial value.
func (p *Property[T]) Reset() {
	p.Set(p.initial)
}

// Link registers fn and immediately calls it with the current value.
func (p *Property[T]) Link(fn Listener[T]) ListenerID {
	id := p.listeners.add(fn)
	fn(p.value, p.value)
	return id
}

// LazyLink registers fn without calling it.
func (p *Property[T]) LazyLink(fn Listener[T]) ListenerID {
	return p.listeners.add(fn)
}

func (p *Property[T]) Unlink(id ListenerID) bool {
	return p.listeners.remove(id)
}

func (p *Property[T]) ListenerCount() int {
	return len(p.listeners.entries)
}

func (p *Property[T]) onChange(fn func()) ListenerID {
	return p.LazyLink(func(T, T) { fn() })
}
