package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/minikv/minikv-go/internal/storage/hashtable"
)

func newGuard() *Guard {
	return NewGuard(hashtable.New())
}

func TestGuard_BasicOps(t *testing.T) {
	g := newGuard()

	if err := g.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := g.Get([]byte("k"))
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q ok=%v, want %q", got, ok, "v")
	}

	// The returned slice is a private copy.
	got[0] = 'x'
	again, _ := g.Get([]byte("k"))
	if string(again) != "v" {
		t.Fatalf("stored value mutated through Get result: %q", again)
	}

	st := g.Stats()
	if st.Keys != 1 {
		t.Fatalf("Stats.Keys = %d, want 1", st.Keys)
	}

	if !g.Delete([]byte("k")) {
		t.Fatal("Delete = false, want true")
	}
	if g.Delete([]byte("k")) {
		t.Fatal("second Delete = true, want false")
	}
}

func TestGuard_ConcurrentMutation(t *testing.T) {
	g := newGuard()

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := []byte(fmt.Sprintf("w%d-k%d", w, i))
				if err := g.Set(key, []byte("value")); err != nil {
					t.Errorf("Set: %v", err)
					return
				}
				if _, ok := g.Get(key); !ok {
					t.Errorf("Get %s: not found", key)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	st := g.Stats()
	if st.Keys != workers*perWorker {
		t.Fatalf("Stats.Keys = %d, want %d", st.Keys, workers*perWorker)
	}
	if len(g.Keys()) != workers*perWorker {
		t.Fatalf("len(Keys) = %d, want %d", len(g.Keys()), workers*perWorker)
	}
}

func TestGuard_Reset(t *testing.T) {
	g := newGuard()
	if err := g.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	g.Reset()
	if st := g.Stats(); st.Keys != 0 {
		t.Fatalf("Stats.Keys after Reset = %d, want 0", st.Keys)
	}
}
