package taskstore

// Predicate tests a key for Store.Filter.
// Predicates see keys only, never handles; selection is by what work is
// indexed as, not by its state.
type Predicate[K comparable] func(K) bool

// All matches every key.
//
// Example:
//
//	for _, h := range store.Filter(taskstore.All[string]()) {
//	    h.Cancel()
//	}
func All[K comparable]() Predicate[K] {
	return func(K) bool { return true }
}

// In matches the given keys.
func In[K comparable](keys ...K) Predicate[K] {
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return func(k K) bool {
		_, ok := set[k]
		return ok
	}
}

// And matches keys satisfying every predicate.
// With no predicates it matches every key.
func And[K comparable](preds ...Predicate[K]) Predicate[K] {
	return func(k K) bool {
		for _, p := range preds {
			if !p(k) {
				return false
			}
		}
		return true
	}
}

// Or matches keys satisfying at least one predicate.
// With no predicates it matches nothing.
func Or[K comparable](preds ...Predicate[K]) Predicate[K] {
	return func(k K) bool {
		for _, p := range preds {
			if p(k) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not[K comparable](pred Predicate[K]) Predicate[K] {
	return func(k K) bool {
		return !pred(k)
	}
}
