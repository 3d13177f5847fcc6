package iface

import (
	"errors"
	"net"
	"sync"

	"github.com/dogmatiq/dodeca/logging"
)

// Filter decides whether a discovered interface should be considered
// by the monitor, in addition to the baseline usability rules.
type Filter func(Handle) bool

// Monitor tracks the set of currently usable network interfaces and
// reports additions/removals, by stable ID, since the last observed
// snapshot.
type Monitor struct {
	IncludeLoopback bool
	Filter          Filter
	Logger          logging.Logger

	mu       sync.Mutex
	known    map[string]Handle
	sub      *subscription
	refCount int
}

// Snapshot returns the interfaces currently considered usable, without
// comparing against any previously observed state.
func (m *Monitor) Snapshot() ([]Handle, error) {
	candidates, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var (
		withoutLoopback []Handle
		loopback        []Handle
	)

	for _, ni := range candidates {
		if !usable(ni) {
			continue
		}

		h := newHandle(ni)

		if m.Filter != nil && !m.Filter(h) {
			continue
		}

		if h.Loopback {
			loopback = append(loopback, h)
		} else {
			withoutLoopback = append(withoutLoopback, h)
		}
	}

	if m.IncludeLoopback || len(withoutLoopback) == 0 {
		return append(withoutLoopback, loopback...), nil
	}

	return withoutLoopback, nil
}

// Refresh takes a fresh snapshot, computes the set of interfaces added
// and removed since the last call to Refresh or the baseline snapshot
// taken by Subscribe, and remembers the new snapshot as the baseline
// for the next call.
func (m *Monitor) Refresh() (added, removed []Handle, err error) {
	curr, err := m.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	added, removed = diff(m.known, curr)
	m.known = index(curr)

	return added, removed, nil
}

// Subscription is a handle to a push-mode change subscription. Calling
// Unsubscribe more than once is safe.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	stop func()
}

type noopUnsubscribe struct{}

func (noopUnsubscribe) Unsubscribe() {}

// Subscribe arranges for onChange to be invoked with the added/removed
// interfaces whenever the host OS reports an address or link change.
// The call that creates the underlying OS subscription takes a snapshot
// that serves as the baseline for the first reported change.
//
// Repeated calls are idempotent: while an OS subscription is active,
// later calls share it and each return an independent handle that may
// be unsubscribed without affecting the others. Only the onChange
// passed to the call that created the OS subscription is invoked; the
// onChange of a later call is not, and the first onChange keeps being
// invoked until the last handle is unsubscribed.
//
// On platforms without a push notification source, Subscribe still
// succeeds but never calls onChange; callers on those platforms are
// expected to call Refresh periodically, per RFC 6762's tolerance for
// either push or poll-based change detection.
func (m *Monitor) Subscribe(onChange func(added, removed []Handle)) (Subscription, error) {
	if onChange == nil {
		return nil, errors.New("iface: onChange must not be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub == nil {
		if curr, err := m.Snapshot(); err == nil {
			m.known = index(curr)
		}

		stop, err := subscribePlatform(m.logger(), func() {
			added, removed, err := m.Refresh()
			if err != nil {
				return
			}
			if len(added) == 0 && len(removed) == 0 {
				return
			}
			onChange(added, removed)
		})
		if err != nil {
			return nil, err
		}

		m.sub = &subscription{stop: stop}
	}

	m.refCount++

	once := sync.Once{}
	handle := handleFunc(func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.refCount--
			if m.refCount <= 0 && m.sub != nil {
				m.sub.stop()
				m.sub = nil
				m.refCount = 0
			}
		})
	})

	return handle, nil
}

type handleFunc func()

func (h handleFunc) Unsubscribe() { h() }

func (m *Monitor) logger() logging.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return logging.DefaultLogger
}

func index(handles []Handle) map[string]Handle {
	m := make(map[string]Handle, len(handles))
	for _, h := range handles {
		m[h.ID] = h
	}
	return m
}

// diff computes the handles present in curr but not in known (added)
// and the handles present in known but not in curr (removed), by ID.
func diff(known map[string]Handle, curr []Handle) (added, removed []Handle) {
	currIdx := index(curr)

	for id, h := range currIdx {
		if _, ok := known[id]; !ok {
			added = append(added, h)
		}
	}

	for id, h := range known {
		if _, ok := currIdx[id]; !ok {
			removed = append(removed, h)
		}
	}

	return added, removed
}
