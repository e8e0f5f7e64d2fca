package picker

import (
	"fmt"
)

const (
	initialIDCapacity = 16
)

// IDAllocator hands out small non-negative integer ids. Released ids are
// reused before new ones are created, most recently released first. When
// every id is in use the capacity doubles.
type IDAllocator struct {
	free []int
	used []bool
}

// NewIDAllocator returns an allocator with ids [0, 16) available.
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.grow(initialIDCapacity)
	return a
}

// grow extends the id range to [0, capacity). New ids are pushed so that the
// smallest one is allocated first.
func (a *IDAllocator) grow(capacity int) {
	start := len(a.used)
	for id := capacity - 1; id >= start; id-- {
		a.free = append(a.free, id)
	}
	a.used = append(a.used, make([]bool, capacity-start)...)
}

// Capacity returns the number of ids the allocator currently manages.
func (a *IDAllocator) Capacity() int { return len(a.used) }

// Allocate returns an unused id.
func (a *IDAllocator) Allocate() int {
	if len(a.free) == 0 {
		a.grow(2 * len(a.used))
	}

	id := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	a.used[id] = true
	return id
}

// Release returns id to the pool. Releasing an id which is not currently
// allocated panics.
func (a *IDAllocator) Release(id int) {
	if id < 0 || id >= len(a.used) || !a.used[id] {
		panic(fmt.Sprintf("id %d is not allocated.", id))
	}
	a.used[id] = false
	a.free = append(a.free, id)
}
