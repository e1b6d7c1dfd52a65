// objpool_test.go — Generic pool round-trips.
package pool

import "testing"

type widget struct {
	n int
}

func TestSyncPool_GetPut(t *testing.T) {
	created := 0
	p := NewSyncPool(func() *widget {
		created++
		return &widget{}
	})
	w := p.Get()
	if w == nil {
		t.Fatal("Get returned nil")
	}
	w.n = 42
	p.Put(w)
	again := p.Get()
	if again == nil {
		t.Fatal("Get after Put returned nil")
	}
	// sync.Pool may or may not return the same object; the creator must
	// have run at least once either way.
	if created < 1 {
		t.Fatal("creator never ran")
	}
}
