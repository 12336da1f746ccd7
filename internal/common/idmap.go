package common

import (
	"sync"
)

const _slots = 2 * 2 * 2 * 2

// IDMap is a concurrent map keyed by message id strings.
type IDMap interface {
	Len() int
	Range(fn func(k string, v interface{}) bool)
	Load(key string) (v interface{}, ok bool)
	// StoreIfAbsent stores value unless key exists already.
	StoreIfAbsent(key string, value interface{}) (ok bool)
	LoadAndDelete(key string) (v interface{}, ok bool)
	Delete(key string)
}

type idmap struct {
	slots [_slots]*idslot
}

func (u *idmap) Len() (n int) {
	for _, slot := range u.slots {
		n += slot.Len()
	}
	return
}

func (u *idmap) Range(fn func(k string, v interface{}) bool) {
	for _, slot := range u.slots {
		if !slot.innerRange(fn) {
			return
		}
	}
}

func (u *idmap) Load(key string) (v interface{}, ok bool) {
	return u.seek(key).Load(key)
}

func (u *idmap) StoreIfAbsent(key string, value interface{}) bool {
	return u.seek(key).StoreIfAbsent(key, value)
}

func (u *idmap) LoadAndDelete(key string) (v interface{}, ok bool) {
	return u.seek(key).LoadAndDelete(key)
}

func (u *idmap) Delete(key string) {
	u.seek(key).Delete(key)
}

func (u *idmap) seek(key string) *idslot {
	// FNV-1a
	h := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return u.slots[h&(_slots-1)]
}

type idslot struct {
	k sync.RWMutex
	m map[string]interface{}
}

func (u *idslot) Len() int {
	u.k.RLock()
	defer u.k.RUnlock()
	return len(u.m)
}

func (u *idslot) Load(key string) (v interface{}, ok bool) {
	u.k.RLock()
	v, ok = u.m[key]
	u.k.RUnlock()
	return
}

func (u *idslot) StoreIfAbsent(key string, value interface{}) (ok bool) {
	u.k.Lock()
	defer u.k.Unlock()
	if _, exist := u.m[key]; exist {
		return false
	}
	u.m[key] = value
	return true
}

func (u *idslot) LoadAndDelete(key string) (v interface{}, ok bool) {
	u.k.Lock()
	v, ok = u.m[key]
	if ok {
		delete(u.m, key)
	}
	u.k.Unlock()
	return
}

func (u *idslot) Delete(key string) {
	u.k.Lock()
	delete(u.m, key)
	u.k.Unlock()
}

func (u *idslot) innerRange(fn func(k string, v interface{}) bool) bool {
	// copy first so fn may touch the map
	u.k.RLock()
	keys := make([]string, 0, len(u.m))
	values := make([]interface{}, 0, len(u.m))
	for key, value := range u.m {
		keys = append(keys, key)
		values = append(values, value)
	}
	u.k.RUnlock()
	for i := range keys {
		if !fn(keys[i], values[i]) {
			return false
		}
	}
	return true
}

// NewIDMap returns a sharded IDMap.
func NewIDMap() IDMap {
	var slots [_slots]*idslot
	for i := 0; i < len(slots); i++ {
		slots[i] = &idslot{
			m: make(map[string]interface{}),
		}
	}
	return &idmap{slots: slots}
}
