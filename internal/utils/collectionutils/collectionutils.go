package collectionutils

// Associate builds a map from items, taking each key/value pair from transform.
// Later items overwrite earlier ones with the same key.
func Associate[T any, K comparable, V any](items []T, transform func(T) (K, V)) map[K]V {
	m := make(map[K]V, len(items))
	for _, item := range items {
		k, v := transform(item)
		m[k] = v
	}

	return m
}

// Duplicates returns the keys selected more than once, in first-repeat order.
func Duplicates[T any, K comparable](items []T, keySelector func(T) K) []K {
	seen := make(map[K]int, len(items))
	var dups []K
	for _, item := range items {
		k := keySelector(item)
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}

	return dups
}
