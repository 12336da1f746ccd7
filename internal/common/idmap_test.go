package common_test

import (
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestIDMap(t *testing.T) {
	m := common.NewIDMap()
	var keys []string
	for i := 0; i < 10; i++ {
		k := strconv.Itoa(i)
		assert.True(t, m.StoreIfAbsent(k, i))
		keys = append(keys, k)
	}
	assert.Equal(t, 10, m.Len())
	v, ok := m.Load("1")
	assert.True(t, ok, "key not found")
	assert.Equal(t, 1, v, "value doesn't match")

	_, ok = m.Load("10")
	assert.False(t, ok, "key should not exist")

	var keys2 []string
	m.Range(func(k string, _ interface{}) bool {
		keys2 = append(keys2, k)
		return true
	})
	sort.Strings(keys)
	sort.Strings(keys2)
	assert.Equal(t, keys, keys2, "keys doesn't match")

	assert.False(t, m.StoreIfAbsent("2", 22))
	assert.True(t, m.StoreIfAbsent(`"2"`, 22))

	v, ok = m.LoadAndDelete("3")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = m.LoadAndDelete("3")
	assert.False(t, ok)

	m.Delete("1")
	_, ok = m.Load("1")
	assert.False(t, ok, "key should be deleted")

	var c int
	m.Range(func(k string, v interface{}) bool {
		c++
		return false
	})
	assert.Equal(t, 1, c, "should be 1")

	// deleting while ranging
	m.Range(func(k string, v interface{}) bool {
		m.Delete(k)
		return true
	})
	assert.Equal(t, 0, m.Len())
}

func TestIDMap_Concurrent(t *testing.T) {
	m := common.NewIDMap()
	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.StoreIfAbsent(strconv.Itoa(i), i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, m.Len())
}

func BenchmarkIDMap(b *testing.B) {
	const value = "foobar"
	m := common.NewIDMap()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.StoreIfAbsent(strconv.Itoa(i), value)
			m.Delete(strconv.Itoa(i))
			i++
		}
	})
}
