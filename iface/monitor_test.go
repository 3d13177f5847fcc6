package iface

import "testing"

func TestDiff_DetectsAddedAndRemoved(t *testing.T) {
	known := index([]Handle{
		{ID: "1", Name: "eth0"},
		{ID: "2", Name: "eth1"},
	})

	curr := []Handle{
		{ID: "1", Name: "eth0"},
		{ID: "3", Name: "eth2"},
	}

	added, removed := diff(known, curr)

	if len(added) != 1 || added[0].ID != "3" {
		t.Fatalf("expected added=[3], got %+v", added)
	}
	if len(removed) != 1 || removed[0].ID != "2" {
		t.Fatalf("expected removed=[2], got %+v", removed)
	}
}

func TestDiff_NoChangeIsEmpty(t *testing.T) {
	known := index([]Handle{{ID: "1"}})
	curr := []Handle{{ID: "1"}}

	added, removed := diff(known, curr)

	if len(added) != 0 || len(removed) != 0 {
		t.Fatalf("expected no changes, got added=%+v removed=%+v", added, removed)
	}
}

func TestMonitor_Snapshot_IncludesLoopbackOnlyAsFallback(t *testing.T) {
	m := &Monitor{
		IncludeLoopback: false,
		Filter: func(h Handle) bool {
			return true
		},
	}

	// This exercises the real host's interfaces; we only assert the
	// invariant, not a specific interface set, since the test host's
	// configuration is unknown.
	handles, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %s", err)
	}

	hasNonLoopback := false
	for _, h := range handles {
		if !h.Loopback {
			hasNonLoopback = true
		}
	}

	if hasNonLoopback {
		for _, h := range handles {
			if h.Loopback {
				t.Fatalf("loopback interface %s included although a non-loopback interface is usable", h.Name)
			}
		}
	}

	if !hasNonLoopback {
		for _, h := range handles {
			if h.Loopback {
				return // fallback correctly engaged: only loopback exists
			}
		}
	}
}

func TestMonitor_Subscribe_IsIdempotentAndUnsubscribeIsSafe(t *testing.T) {
	m := &Monitor{}

	sub1, err := m.Subscribe(func(added, removed []Handle) {})
	if err != nil {
		t.Fatalf("first Subscribe failed: %s", err)
	}

	sub2, err := m.Subscribe(func(added, removed []Handle) {})
	if err != nil {
		t.Fatalf("second Subscribe failed: %s", err)
	}

	sub1.Unsubscribe()
	sub1.Unsubscribe() // must be safe to call twice
	sub2.Unsubscribe()
}
