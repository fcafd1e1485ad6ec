package remind

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Start()
	t.Cleanup(func() { s.Stop() })
	return s
}

func discard(string, string) error { return nil }

func TestScheduleAndCancel(t *testing.T) {
	s := newTestScheduler(t)

	id, err := s.Schedule(time.Now().Add(time.Hour), "chan1", "owner1", "do the thing", discard, "")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero task id")
	}

	if !s.Cancel(id) {
		t.Error("first cancel should succeed")
	}
	if s.Cancel(id) {
		t.Error("second cancel should fail")
	}
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}

func TestCancelUnknownID(t *testing.T) {
	s := newTestScheduler(t)
	if s.Cancel(999) {
		t.Error("cancel of unknown id should return false")
	}
}

func TestSequentialIDs(t *testing.T) {
	s := newTestScheduler(t)
	fireAt := time.Now().Add(time.Hour)
	a, _ := s.Schedule(fireAt, "c", "o", "first", discard, "")
	b, _ := s.Schedule(fireAt, "c", "o", "second", discard, "")
	if b != a+1 {
		t.Errorf("ids not sequential: %d then %d", a, b)
	}
}

func TestPerOwnerIsolation(t *testing.T) {
	s := newTestScheduler(t)
	fireAt := time.Now().Add(time.Hour)
	s.Schedule(fireAt, "c1", "alice", "a1", discard, "")
	s.Schedule(fireAt, "c2", "bob", "b1", discard, "")
	s.Schedule(fireAt, "c1", "alice", "a2", discard, "")

	alice := s.ListForOwner("alice")
	if len(alice) != 2 {
		t.Fatalf("alice has %d tasks, want 2", len(alice))
	}
	for _, task := range alice {
		if task.OwnerID != "alice" {
			t.Errorf("alice's list contains task for %q", task.OwnerID)
		}
	}
	if got := s.ListForOwner("bob"); len(got) != 1 || got[0].Body != "b1" {
		t.Errorf("bob's list = %+v", got)
	}
	if got := s.ListForOwner("carol"); len(got) != 0 {
		t.Errorf("carol should have no tasks, got %d", len(got))
	}
}

func TestListAll_InsertionOrder(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Now()
	// Later fire time scheduled first: listing must stay insertion-ordered.
	s.Schedule(now.Add(2*time.Hour), "c", "o", "first", discard, "")
	s.Schedule(now.Add(1*time.Hour), "c", "o", "second", discard, "")

	all := s.ListAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	if all[0].Body != "first" || all[1].Body != "second" {
		t.Errorf("expected insertion order, got %q then %q", all[0].Body, all[1].Body)
	}
}

func TestFire_DeliversAndRetires(t *testing.T) {
	s := newTestScheduler(t)

	fired := make(chan string, 1)
	var pendingAtDelivery int
	deliver := func(dest, content string) error {
		// Removal must happen before the callback runs.
		pendingAtDelivery = s.Count()
		fired <- content
		return nil
	}

	id, err := s.Schedule(time.Now().Add(150*time.Millisecond), "chan9", "owner9", "check the oven", deliver, "remind me in 30 minutes to check the oven")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var content string
	select {
	case content = <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("reminder did not fire")
	}

	if pendingAtDelivery != 0 {
		t.Errorf("task still pending during delivery: count = %d", pendingAtDelivery)
	}
	if !strings.Contains(content, "<@owner9>") || !strings.Contains(content, "check the oven") {
		t.Errorf("delivered content = %q", content)
	}
	if !strings.Contains(content, "remind me in 30 minutes") {
		t.Errorf("delivered content missing source text: %q", content)
	}
	if s.Cancel(id) {
		t.Error("cancel after fire should return false")
	}
}

func TestFire_DeliveryFailureStillRetires(t *testing.T) {
	s := newTestScheduler(t)

	fired := make(chan struct{}, 1)
	deliver := func(dest, content string) error {
		fired <- struct{}{}
		return errors.New("channel gone")
	}

	s.Schedule(time.Now().Add(100*time.Millisecond), "c", "o", "body", deliver, "")

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("reminder did not fire")
	}

	// The scheduler retires the task even when delivery fails; give the
	// fire goroutine a beat to finish its bookkeeping.
	deadline := time.Now().Add(time.Second)
	for s.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Count() != 0 {
		t.Errorf("count = %d after failed delivery, want 0", s.Count())
	}
}

func TestConcurrentScheduleAndCancel(t *testing.T) {
	s := newTestScheduler(t)

	var wg sync.WaitGroup
	ids := make(chan int64, 100)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				id, err := s.Schedule(time.Now().Add(time.Hour), "c", "o", "x", discard, "")
				if err != nil {
					t.Errorf("Schedule: %v", err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate task id %d", id)
		}
		seen[id] = true
		if !s.Cancel(id) {
			t.Errorf("cancel of pending task %d failed", id)
		}
	}
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}
