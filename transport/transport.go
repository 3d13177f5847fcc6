// Package transport manages the UDP sockets used to join and
// participate in the mDNS multicast groups, per RFC 6762 section 3: one
// wildcard-bound receiver per enabled address family, and one sender
// socket per local unicast address discovered on the engine's NICs.
package transport

import (
	"errors"
	"net"
	"sync"

	"github.com/dogmatiq/dodeca/logging"
)

// Port is the mDNS port number.
const Port = 5353

// MulticastTTL is the IP TTL / hop-limit used on all outbound mDNS
// sockets, per RFC 6762 section 11.
const MulticastTTL = 255

// ErrDisposed is returned by Send once the transport has been
// disposed.
var ErrDisposed = errors.New("transport: disposed")

// state models the per-transport lifecycle: Idle -> Active on
// construction, Active -> Disposed on Close. There is no restart; a NIC
// change causes the owner to build a new Transport wholesale.
type state int32

const (
	stateActive state = iota
	stateDisposed
)

// Packet is a UDP datagram together with the endpoint it was sent to
// or received from.
type Packet struct {
	Endpoint Endpoint
	Data     []byte
}

// Release returns the packet's underlying buffer to the pool. Callers
// must not use Data after calling Release.
func (p *Packet) Release() {
	putBuffer(p.Data)
	p.Data = nil
}

// Transport is a running set of mDNS sockets bound to a fixed set of
// network interfaces. It owns exactly the receiver and sender sockets
// constructed for it; rebuilding for a different interface set means
// constructing a new Transport and disposing the old one.
type Transport struct {
	logger logging.Logger
	scope  Scope

	mu    sync.Mutex
	st    state
	recv4 *receiver
	recv6 *receiver6
	send  map[string]*sender // keyed by local unicast address string
}

// Options configures the construction of a Transport.
type Options struct {
	Interfaces []net.Interface
	UseIPv4    bool
	UseIPv6    bool
	Scope      Scope
	Logger     logging.Logger
}

// New constructs and activates a Transport bound to the given
// interfaces. The returned Transport is Active; call Close to dispose
// of it.
func New(opts Options) (*Transport, error) {
	if !opts.UseIPv4 && !opts.UseIPv6 {
		return nil, errors.New("transport: at least one of IPv4 or IPv6 must be enabled")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.DefaultLogger
	}

	t := &Transport{
		logger: logger,
		scope:  resolvedScope(opts.Scope),
		send:   make(map[string]*sender),
	}

	if opts.UseIPv4 {
		r, err := newReceiver4(opts.Interfaces, logger)
		if err != nil {
			return nil, err
		}
		t.recv4 = r
	}

	if opts.UseIPv6 {
		r, err := newReceiver6(opts.Interfaces, opts.Scope, logger)
		if err != nil {
			t.Close()
			return nil, err
		}
		t.recv6 = r
	}

	for _, iface := range opts.Interfaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}

			isV4 := ipNet.IP.To4() != nil
			if isV4 && !opts.UseIPv4 {
				continue
			}
			if !isV4 && !opts.UseIPv6 {
				continue
			}

			s, err := newSender(iface, ipNet.IP, opts.Scope, logger)
			if err != nil {
				if isAddressNotAvailable(err) {
					logger.Debug("skipping sender on %s: address %s is not available", iface.Name, ipNet.IP)
				} else {
					logger.Log("skipping sender on %s (%s): %s", iface.Name, ipNet.IP, err)
				}
				continue
			}

			t.send[ipNet.IP.String()] = s
		}
	}

	return t, nil
}

// Receivers returns the active receiver sockets, one per enabled
// address family. Each should be drained by its own long-lived
// goroutine; ordering of packets delivered from a single receiver is
// preserved, but ordering across receivers is unspecified.
func (t *Transport) Receivers() []Receiver {
	var out []Receiver
	if t.recv4 != nil {
		out = append(out, t.recv4)
	}
	if t.recv6 != nil {
		out = append(out, t.recv6)
	}
	return out
}

// Receiver reads inbound datagrams from a single bound family.
type Receiver interface {
	Read() (*Packet, error)
	Close() error
}

// Send multicasts data from every sender socket, per RFC 6762 section
// 3: IPv4 senders transmit to 224.0.0.251:5353, IPv6 senders transmit
// to FF0x::FB:5353 with x taken from the transport's configured scope.
//
// Per-sender errors are isolated and logged; they never abort delivery
// to the remaining senders. Send returns ErrDisposed if the transport
// has been closed, and otherwise an error only if there was no sender
// to attempt delivery from at all.
func (t *Transport) Send(data []byte) error {
	t.mu.Lock()
	if t.st == stateDisposed {
		t.mu.Unlock()
		return ErrDisposed
	}
	senders := make([]*sender, 0, len(t.send))
	for _, s := range t.send {
		senders = append(senders, s)
	}
	t.mu.Unlock()

	if len(senders) == 0 {
		return errors.New("transport: no sender sockets available")
	}

	v6Dest := IPv6GroupAddress(t.scope)

	for _, s := range senders {
		dest := IPv4GroupAddress
		if !s.isV4 {
			dest = v6Dest
		}

		if err := s.send(Endpoint{InterfaceIndex: s.iface.Index, Address: dest}, data); err != nil {
			t.logger.Log("unable to send mDNS packet to %s via %s: %s", dest, s.local, err)
		}
	}

	return nil
}

// Close disposes of the transport: all receiver and sender sockets are
// closed, which aborts any in-flight reads. A send that loses the race
// with Close either returns ErrDisposed or, if it had already passed
// that check, logs the per-sender socket errors and returns nil; it
// never panics.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.st == stateDisposed {
		t.mu.Unlock()
		return nil
	}
	t.st = stateDisposed
	recv4, recv6, senders := t.recv4, t.recv6, t.send
	t.send = nil
	t.mu.Unlock()

	if recv4 != nil {
		recv4.Close()
	}
	if recv6 != nil {
		recv6.Close()
	}
	for _, s := range senders {
		s.close()
	}

	return nil
}
