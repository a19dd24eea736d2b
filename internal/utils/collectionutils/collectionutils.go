package collectionutils

func Map[T any, R any](items []T, f func(T) R) []R {
	result := make([]R, len(items))
	for i, v := range items {
		result[i] = f(v)
	}
	return result
}

// Distinct keeps the first occurrence of every key, in order.
func Distinct[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	result := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}

// Associate builds a lookup table from items. Later items win on duplicate keys.
func Associate[T any, K comparable, V any](items []T, transform func(T) (K, V)) map[K]V {
	m := make(map[K]V, len(items))
	for _, item := range items {
		k, v := transform(item)
		m[k] = v
	}
	return m
}

func GetOrDefault[K comparable, T any](m map[K]T, key K, defaultValue T) T {
	if v, ok := m[key]; ok {
		return v
	}
	return defaultValue
}
