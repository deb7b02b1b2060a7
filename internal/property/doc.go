// Package property provides observable values with synchronous, ordered
// change notification.
//
// A [Property] holds a single value. Listeners registered with
// [Property.Link] or [Property.LazyLink] are called in registration order,
// on the mutating goroutine, before [Property.Set] returns. A [Derived]
// value recomputes whenever one of its dependencies changes, so a listener
// registered after the derived value was created always observes the
// recomputed result.
//
// # Re-entrancy
//
// Setting a property from inside one of its own listeners is not guarded
// against. The nested notification runs to completion before the outer one
// continues, which means later listeners in the outer pass may see a value
// newer than the one they were called with. Avoid it.
//
// # Thread Safety
//
// Properties are NOT thread-safe. A property graph is owned by a single
// goroutine, typically the render loop.
package property
