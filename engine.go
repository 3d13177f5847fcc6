package mdns

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/dissolve/mdnscore/dedup"
	"github.com/dissolve/mdnscore/iface"
	"github.com/dissolve/mdnscore/transport"
	"github.com/dogmatiq/dodeca/logging"
	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
)

// Engine is the mDNS dispatcher / service facade: it owns the
// multicast transport and the unicast sockets used for legacy and
// QU-requested responses, and dispatches decoded queries and answers to
// registered subscribers.
//
// Engine's public methods are safe to call concurrently with each
// other and with event delivery.
type Engine struct {
	// UseIPv4 and UseIPv6 select which address families the engine
	// joins the mDNS group on. Both default to true.
	UseIPv4 bool
	UseIPv6 bool

	// IgnoreDuplicateMessages enables inbound duplicate suppression.
	// Defaults to true.
	IgnoreDuplicateMessages bool

	// IncludeLoopback includes loopback interfaces even when a
	// non-loopback usable interface exists. Defaults to false.
	IncludeLoopback bool

	// EnableUnicastAnswers enables honouring the QU bit and legacy
	// unicast detection. Defaults to true.
	EnableUnicastAnswers bool

	// HostRecordTTL and NonHostTTL parameterize the outbound TTL
	// policy. Default to HostRecordTTL and NonHostTTL respectively.
	HostRecordTTL time.Duration
	NonHostTTL    time.Duration

	// Scope selects the IPv6 multicast scope. Defaults to
	// transport.ScopeLinkLocal.
	Scope transport.Scope

	// NetworkInterfacesFilter, if set, further restricts the
	// interfaces considered usable, beyond the baseline rules.
	NetworkInterfacesFilter func(iface.Handle) bool

	// Logger receives log output from the engine, its transport, and
	// its interface monitor. Defaults to logging.DefaultLogger.
	Logger logging.Logger

	mu      sync.Mutex
	started bool

	monitor   *iface.Monitor
	ifaceSub  iface.Subscription
	transport *transport.Transport
	unicast4  *net.UDPConn
	unicast6  *net.UDPConn

	rootCtx    context.Context
	rootCancel context.CancelFunc
	genCancel  context.CancelFunc
	genGroup   *errgroup.Group

	inboundDedup  *dedup.Set
	outboundDedup *dedup.Set

	queryEvents     *registry[QueryEvent]
	answerEvents    *registry[AnswerEvent]
	malformedEvents *registry[MalformedEvent]
	ifaceEvents     *registry[InterfacesChangedEvent]
}

// New returns a new, unstarted Engine with default configuration,
// modified by the given options.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		UseIPv4:                 true,
		UseIPv6:                 true,
		IgnoreDuplicateMessages: true,
		IncludeLoopback:         false,
		EnableUnicastAnswers:    true,
		HostRecordTTL:           HostRecordTTL,
		NonHostTTL:              NonHostTTL,
		Scope:                   transport.DefaultScope,
	}

	for _, opt := range options {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.Logger == nil {
		e.Logger = logging.DefaultLogger
	}

	e.queryEvents = newRegistry[QueryEvent](e.Logger)
	e.answerEvents = newRegistry[AnswerEvent](e.Logger)
	e.malformedEvents = newRegistry[MalformedEvent](e.Logger)
	e.ifaceEvents = newRegistry[InterfacesChangedEvent](e.Logger)

	return e, nil
}

// OnQuery registers a callback invoked for every inbound query.
func (e *Engine) OnQuery(fn func(QueryEvent)) Subscription {
	return e.queryEvents.subscribe(fn)
}

// OnAnswer registers a callback invoked for every inbound answer.
func (e *Engine) OnAnswer(fn func(AnswerEvent)) Subscription {
	return e.answerEvents.subscribe(fn)
}

// OnMalformed registers a callback invoked for every inbound datagram
// that could not be decoded.
func (e *Engine) OnMalformed(fn func(MalformedEvent)) Subscription {
	return e.malformedEvents.subscribe(fn)
}

// OnInterfacesChanged registers a callback invoked whenever the engine
// rebuilds its transport following an interface change.
func (e *Engine) OnInterfacesChanged(fn func(InterfacesChangedEvent)) Subscription {
	return e.ifaceEvents.subscribe(fn)
}

// Start discovers the currently usable network interfaces, constructs
// the transport, opens the dedicated unicast sockets, and subscribes to
// interface-change notifications. It is idempotent: calling Start again
// while already started is a no-op; calling it again after Stop
// re-initializes the engine from scratch.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	e.rootCtx, e.rootCancel = context.WithCancel(context.Background())

	e.monitor = &iface.Monitor{
		IncludeLoopback: e.IncludeLoopback,
		Filter:          e.NetworkInterfacesFilter,
		Logger:          e.Logger,
	}

	e.inboundDedup = dedup.New()
	e.outboundDedup = dedup.New()

	handles, err := e.monitor.Snapshot()
	if err != nil {
		e.rootCancel()
		return err
	}

	if err := e.openUnicastSockets(); err != nil {
		e.rootCancel()
		return err
	}

	if err := e.rebuildTransport(handles); err != nil {
		e.closeUnicastSockets()
		e.rootCancel()
		return err
	}

	sub, err := e.monitor.Subscribe(e.onInterfacesChanged)
	if err != nil {
		e.Logger.Log("mdns: unable to subscribe to interface change notifications: %s", err)
	} else {
		e.ifaceSub = sub
	}

	e.started = true
	return nil
}

// Stop unsubscribes from interface-change notifications, clears every
// consumer subscription, and disposes the transport. The engine may be
// started again afterwards.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil
	}

	if e.ifaceSub != nil {
		e.ifaceSub.Unsubscribe()
		e.ifaceSub = nil
	}

	e.queryEvents.clear()
	e.answerEvents.clear()
	e.malformedEvents.clear()
	e.ifaceEvents.clear()

	if e.transport != nil {
		e.transport.Close()
		e.transport = nil
	}

	e.stopReceiving()

	e.closeUnicastSockets()
	e.rootCancel()

	e.started = false
	return nil
}

func (e *Engine) openUnicastSockets() error {
	if e.UseIPv4 {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
		if err != nil {
			return err
		}
		e.unicast4 = conn
	}

	if e.UseIPv6 {
		conn, err := net.ListenUDP("udp6", &net.UDPAddr{})
		if err != nil {
			if e.unicast4 != nil {
				e.unicast4.Close()
			}
			return err
		}
		e.unicast6 = conn
	}

	return nil
}

func (e *Engine) closeUnicastSockets() {
	if e.unicast4 != nil {
		e.unicast4.Close()
		e.unicast4 = nil
	}
	if e.unicast6 != nil {
		e.unicast6.Close()
		e.unicast6 = nil
	}
}

// rebuildTransport constructs a new transport bound to handles and
// starts its receive loops, replacing any existing transport wholesale.
// Callers must hold e.mu.
func (e *Engine) rebuildTransport(handles []iface.Handle) error {
	ifaces := make([]net.Interface, 0, len(handles))
	for _, h := range handles {
		ifaces = append(ifaces, h.Interface())
	}

	t, err := transport.New(transport.Options{
		Interfaces: ifaces,
		UseIPv4:    e.UseIPv4,
		UseIPv6:    e.UseIPv6,
		Scope:      e.Scope,
		Logger:     e.Logger,
	})
	if err != nil {
		return err
	}

	if e.transport != nil {
		e.transport.Close()
	}

	e.stopReceiving()

	e.transport = t
	e.startReceiving(t)

	return nil
}

// startReceiving launches one long-lived goroutine per receiver socket
// on t, supervised by an errgroup in the same style as the responder's
// main Run loop. Callers must hold e.mu.
func (e *Engine) startReceiving(t *transport.Transport) {
	genCtx, genCancel := context.WithCancel(e.rootCtx)
	g, genCtx := errgroup.WithContext(genCtx)

	e.genCancel = genCancel
	e.genGroup = g

	for _, r := range t.Receivers() {
		r := r
		g.Go(func() error {
			e.receiveLoop(genCtx, r)
			return nil
		})
	}
}

// stopReceiving cancels and waits for the current generation of
// receive-loop goroutines, if any. Callers must hold e.mu.
func (e *Engine) stopReceiving() {
	if e.genCancel != nil {
		e.genCancel()
		e.genCancel = nil
	}
	if e.genGroup != nil {
		e.genGroup.Wait() //nolint:errcheck // receiveLoop never returns an error
		e.genGroup = nil
	}
}

// receiveLoop drains a single receiver socket in a plain read-deliver
// loop: suspend on read, deliver, loop. Disposal of the socket (via
// Transport.Close) aborts any in-flight read, which this loop treats as
// a normal exit rather than an error to surface.
func (e *Engine) receiveLoop(ctx context.Context, r transport.Receiver) {
	for {
		pkt, err := r.Read()
		if err != nil {
			return
		}

		e.onDatagram(pkt.Endpoint, pkt.Data)
		pkt.Release()

		if ctx.Err() != nil {
			return
		}
	}
}

// onInterfacesChanged is the NIC-change handler described in the
// dispatcher design: on any change, the current transport is disposed
// and a new one is constructed bound to the current interface set.
func (e *Engine) onInterfacesChanged(added, removed []iface.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	handles, err := e.monitor.Snapshot()
	if err != nil {
		e.Logger.Log("mdns: unable to refresh network interfaces: %s", err)
		return
	}

	if err := e.rebuildTransport(handles); err != nil {
		e.Logger.Log("mdns: unable to rebuild transport after interface change: %s", err)
		return
	}

	e.ifaceEvents.emit(InterfacesChangedEvent{Added: added, Removed: removed})
}

// onDatagram is the inbound dispatch pipeline: duplicate suppression,
// decode, opcode/rcode filtering, and routing to query/answer
// subscribers, per RFC 6762 section 18.3.
func (e *Engine) onDatagram(remote transport.Endpoint, data []byte) {
	if e.IgnoreDuplicateMessages && !e.inboundDedup.TryAdd(data) {
		return
	}

	m, err := decodeInbound(data)
	if err != nil {
		cp := make([]byte, len(data))
		copy(cp, data)
		e.malformedEvents.emit(MalformedEvent{Data: cp})
		return
	}

	// RFC 6762 section 18.3: messages with a non-zero OPCODE or RCODE
	// must be silently ignored.
	if m.Opcode != dns.OpcodeQuery || m.Rcode != dns.RcodeSuccess {
		return
	}

	if !m.Response && len(m.Question) > 0 {
		e.queryEvents.emit(QueryEvent{Message: m, Remote: remote})
		return
	}

	if m.Response && len(m.Answer) > 0 {
		e.answerEvents.emit(AnswerEvent{Message: m, Remote: remote})
	}
}
