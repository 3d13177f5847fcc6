package mdns

import (
	"sync"

	"github.com/dissolve/mdnscore/iface"
	"github.com/dissolve/mdnscore/transport"
	"github.com/dogmatiq/dodeca/logging"
	"github.com/miekg/dns"
)

// Subscription is a handle returned by Engine's On* methods. Calling
// Unsubscribe removes the associated callback; it is safe to call more
// than once.
type Subscription interface {
	Unsubscribe()
}

// QueryEvent is delivered to OnQuery subscribers for every inbound
// message that is a query with at least one question.
type QueryEvent struct {
	Message *dns.Msg
	Remote  transport.Endpoint
}

// AnswerEvent is delivered to OnAnswer subscribers for every inbound
// message that is a response with at least one answer.
type AnswerEvent struct {
	Message *dns.Msg
	Remote  transport.Endpoint
}

// MalformedEvent is delivered to OnMalformed subscribers when an
// inbound datagram could not be decoded as a DNS message.
type MalformedEvent struct {
	Data []byte
}

// InterfacesChangedEvent is delivered to OnInterfacesChanged
// subscribers when the engine has rebuilt its transport following a
// change in the set of usable network interfaces.
type InterfacesChangedEvent struct {
	Added   []iface.Handle
	Removed []iface.Handle
}

// registry is a thread-safe set of subscribed callbacks, dispatched
// with panic recovery so that a misbehaving consumer can never
// interrupt the dispatch loop.
type registry[T any] struct {
	logger logging.Logger

	mu       sync.Mutex
	nextID   int
	handlers map[int]func(T)
}

func newRegistry[T any](logger logging.Logger) *registry[T] {
	return &registry[T]{
		logger:   logger,
		handlers: make(map[int]func(T)),
	}
}

func (r *registry[T]) subscribe(fn func(T)) Subscription {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.handlers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return handleFunc(func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.handlers, id)
			r.mu.Unlock()
		})
	})
}

func (r *registry[T]) emit(v T) {
	r.mu.Lock()
	fns := make([]func(T), 0, len(r.handlers))
	for _, fn := range r.handlers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		r.dispatch(fn, v)
	}
}

func (r *registry[T]) dispatch(fn func(T), v T) {
	defer func() {
		if err := recover(); err != nil {
			logging.Log(r.logger, "recovered from panic in mDNS event handler: %v", err)
		}
	}()

	fn(v)
}

// clear removes every subscribed handler, as done by Engine.Stop.
func (r *registry[T]) clear() {
	r.mu.Lock()
	r.handlers = make(map[int]func(T))
	r.mu.Unlock()
}

type handleFunc func()

func (h handleFunc) Unsubscribe() { h() }
