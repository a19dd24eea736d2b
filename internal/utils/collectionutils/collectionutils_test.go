package collectionutils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssociate(t *testing.T) {
	type user struct {
		id   int
		name string
	}

	m := Associate([]user{{1, "ann"}, {2, "bob"}}, func(u user) (int, string) { return u.id, u.name })

	assert.Equal(t, map[int]string{1: "ann", 2: "bob"}, m)
	assert.Equal(t, "bob", GetOrDefault(m, 2, "nobody"))
	assert.Equal(t, "nobody", GetOrDefault(m, 3, "nobody"))
}

func TestMapAndDistinct(t *testing.T) {
	owners := Map([]string{"a:1", "b:2", "a:3"}, func(s string) string { return s[:1] })

	assert.Equal(t, []string{"a", "b", "a"}, owners)
	assert.Equal(t, []string{"a", "b"}, Distinct(owners))
	assert.Empty(t, Distinct([]int(nil)))
}

func TestSafeMapConcurrentAccess(t *testing.T) {
	m := New[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Store(i, i*i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.Len())
	v, ok := m.Get(7)
	assert.True(t, ok)
	assert.Equal(t, 49, v)

	m.Delete(7)
	_, ok = m.Get(7)
	assert.False(t, ok)
}

func TestSafeMapGetOrCreateAndDeleteFunc(t *testing.T) {
	m := New[string, int]()

	calls := 0
	create := func() int { calls++; return 10 }
	assert.Equal(t, 10, m.GetOrCreate("a", create))
	assert.Equal(t, 10, m.GetOrCreate("a", create))
	assert.Equal(t, 1, calls)

	m.Store("b", 1)
	m.Store("c", 20)
	removed := m.DeleteFunc(func(_ string, v int) bool { return v >= 10 })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, m.Len())
}
