package collectionutils

import "sync"

// SafeMap is a map guarded by a RWMutex.
type SafeMap[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
}

func New[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		data: make(map[K]V),
	}
}

func (safeMap *SafeMap[K, V]) Store(key K, value V) {
	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()
	safeMap.data[key] = value
}

func (safeMap *SafeMap[K, V]) Get(key K) (V, bool) {
	safeMap.mutex.RLock()
	defer safeMap.mutex.RUnlock()
	value, exists := safeMap.data[key]
	return value, exists
}

// GetOrCreate returns the value under key, creating it with create when
// missing. create runs at most once per missing key.
func (safeMap *SafeMap[K, V]) GetOrCreate(key K, create func() V) V {
	if value, ok := safeMap.Get(key); ok {
		return value
	}

	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()
	if value, ok := safeMap.data[key]; ok {
		return value
	}
	value := create()
	safeMap.data[key] = value
	return value
}

func (safeMap *SafeMap[K, V]) Delete(key K) {
	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()
	delete(safeMap.data, key)
}

// DeleteFunc removes every entry for which del returns true and reports how
// many were removed.
func (safeMap *SafeMap[K, V]) DeleteFunc(del func(K, V) bool) int {
	safeMap.mutex.Lock()
	defer safeMap.mutex.Unlock()

	removed := 0
	for k, v := range safeMap.data {
		if del(k, v) {
			delete(safeMap.data, k)
			removed++
		}
	}
	return removed
}

func (safeMap *SafeMap[K, V]) Len() int {
	safeMap.mutex.RLock()
	defer safeMap.mutex.RUnlock()
	return len(safeMap.data)
}
