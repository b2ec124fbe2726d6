package session

import (
	"sync"
	"testing"
)

func TestRegistry_Tokens(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Token("p1"); ok {
		t.Fatal("expected no token for fresh project")
	}

	r.SetToken("p1", "sess-a")
	tok, ok := r.Token("p1")
	if !ok || tok != "sess-a" {
		t.Fatalf("expected sess-a, got %q (%v)", tok, ok)
	}

	r.SetToken("p1", "sess-b")
	if tok, _ := r.Token("p1"); tok != "sess-b" {
		t.Fatalf("expected overwrite to sess-b, got %q", tok)
	}

	if _, ok := r.Token("p2"); ok {
		t.Fatal("tokens must be scoped per project")
	}
}

func TestRegistry_LockSerializes(t *testing.T) {
	r := NewRegistry()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock("p1")
			defer unlock()

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInCritical != 1 {
		t.Fatalf("expected at most 1 holder of the project lock, saw %d", maxInCritical)
	}
}

func TestRegistry_LockIndependentProjects(t *testing.T) {
	r := NewRegistry()
	unlock1 := r.Lock("p1")
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := r.Lock("p2")
		unlock2()
		close(done)
	}()
	<-done
}
