package state

import (
	"sync"
	"testing"
)

const stateTesting State = "testing"

func TestUnseenUserIsDefault(t *testing.T) {
	m := NewMemoryManager()
	for _, id := range []int64{0, 1, -5, 1 << 40} {
		if got := m.Get(id); got != StateDefault {
			t.Fatalf("Get(%d) = %q, want default", id, got)
		}
		if m.InProgress(id) {
			t.Fatalf("InProgress(%d) = true for unseen user", id)
		}
	}
}

func TestSetAndClear(t *testing.T) {
	m := NewMemoryManager()
	m.Set(7, stateTesting)
	if got := m.Get(7); got != stateTesting {
		t.Fatalf("Get = %q", got)
	}
	if !m.InProgress(7) {
		t.Fatal("expected InProgress after Set")
	}
	if got := m.Get(8); got != StateDefault {
		t.Fatalf("other user leaked state: %q", got)
	}

	m.Clear(7)
	if got := m.Get(7); got != StateDefault {
		t.Fatalf("Get after Clear = %q", got)
	}
	// Clearing an unseen user is a no-op.
	m.Clear(99)
	if got := m.Get(99); got != StateDefault {
		t.Fatalf("Get after Clear on unseen = %q", got)
	}
}

func TestSetDefaultDropsSlot(t *testing.T) {
	m := newMemoryManager(1)
	m.Set(3, stateTesting)
	m.Set(3, StateDefault)
	if n := len(m.shards[0].states); n != 0 {
		t.Fatalf("expected empty shard, got %d entries", n)
	}
}

func TestUpdateIsAtomicPerUser(t *testing.T) {
	m := NewMemoryManager()
	const workers = 50
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.Update(1, func(cur State) State {
				if cur != StateDefault {
					return cur
				}
				mu.Lock()
				won++
				mu.Unlock()
				return stateTesting
			})
		}()
	}
	wg.Wait()
	if won != 1 {
		t.Fatalf("transition from default applied %d times, want 1", won)
	}
	if got := m.Get(1); got != stateTesting {
		t.Fatalf("Get = %q", got)
	}
}

func TestUsersAreIsolatedUnderConcurrency(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for id := int64(0); id < 200; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			st := State("s" + string(rune('a'+id%26)))
			m.Set(id, st)
			if got := m.Get(id); got != st {
				t.Errorf("user %d: got %q want %q", id, got, st)
			}
		}(id)
	}
	wg.Wait()
}
