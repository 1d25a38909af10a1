// Package pending tracks the producers of unsaved changes and turns them
// into an ordered save batch on demand.
package pending

import "sort"

// Producer reports the current save entry of something with unsaved
// changes. Implementations must be comparable (pointer receivers) and must
// not mutate state from Pending.
type Producer[P any] interface {
	Pending() (key int, payload P)
}

// Registry is a presence-only set of producers. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Registry[P any] struct {
	order    []Producer[P]
	present  map[Producer[P]]struct{}
	sink     func([]P)
	onChange func(count int)
}

// New returns a Registry that hands committed batches to sink.
func New[P any](sink func([]P)) *Registry[P] {
	return &Registry[P]{
		present: make(map[Producer[P]]struct{}),
		sink:    sink,
	}
}

// OnChange sets the observer notified with the new count whenever a
// producer is added or removed, or the registry is cleared.
func (r *Registry[P]) OnChange(fn func(count int)) {
	r.onChange = fn
}

// Add registers p. Adding a registered producer is a no-op.
func (r *Registry[P]) Add(p Producer[P]) {
	if _, ok := r.present[p]; ok {
		return
	}
	r.present[p] = struct{}{}
	r.order = append(r.order, p)
	r.notify()
}

// Remove unregisters p. Removing an unknown producer is a no-op.
func (r *Registry[P]) Remove(p Producer[P]) {
	if _, ok := r.present[p]; !ok {
		return
	}
	delete(r.present, p)
	for i, q := range r.order {
		if q == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.notify()
}

// Has reports whether p is registered.
func (r *Registry[P]) Has(p Producer[P]) bool {
	_, ok := r.present[p]
	return ok
}

// Count returns the number of registered producers.
func (r *Registry[P]) Count() int {
	return len(r.order)
}

// Clear drops every registration.
func (r *Registry[P]) Clear() {
	if len(r.order) == 0 {
		return
	}
	r.order = nil
	r.present = make(map[Producer[P]]struct{})
	r.notify()
}

// Collect asks every registered producer for its entry once and returns
// the payloads sorted by ascending key. Producers with equal keys keep
// their registration order.
func (r *Registry[P]) Collect() []P {
	type entry struct {
		key     int
		payload P
	}

	snapshot := make([]Producer[P], len(r.order))
	copy(snapshot, r.order)

	entries := make([]entry, 0, len(snapshot))
	for _, p := range snapshot {
		key, payload := p.Pending()
		entries = append(entries, entry{key: key, payload: payload})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	payloads := make([]P, len(entries))
	for i, e := range entries {
		payloads[i] = e.payload
	}
	return payloads
}

// Commit collects the ordered batch and hands it to the sink. The registry
// keeps its registrations; Clear runs once the batch is known to be stored.
func (r *Registry[P]) Commit() {
	payloads := r.Collect()
	if r.sink != nil {
		r.sink(payloads)
	}
}

func (r *Registry[P]) notify() {
	if r.onChange != nil {
		r.onChange(len(r.order))
	}
}
