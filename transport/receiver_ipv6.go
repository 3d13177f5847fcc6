package transport

import (
	"context"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	ipvx "golang.org/x/net/ipv6"
)

// receiver6 is the IPv6 half of a Transport's receive side.
type receiver6 struct {
	pc     *ipvx.PacketConn
	scope  Scope
	logger logging.Logger
}

// IPv6ListenAddress is the address to which the receiver binds for
// IPv6.
var IPv6ListenAddress = &net.UDPAddr{Port: Port}

func newReceiver6(ifaces []net.Interface, scope Scope, logger logging.Logger) (*receiver6, error) {
	scope = resolvedScope(scope)
	lc := net.ListenConfig{Control: reuseAddrControl}

	conn, err := lc.ListenPacket(context.Background(), "udp6", IPv6ListenAddress.String())
	if err != nil {
		logListenError(logger, IPv6ListenAddress, err)
		return nil, err
	}

	pc := ipvx.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipvx.FlagInterface, true); err != nil {
		pc.Close()
		logListenError(logger, IPv6ListenAddress, err)
		return nil, err
	}
	_ = pc.SetHopLimit(MulticastTTL)
	_ = pc.SetMulticastHopLimit(MulticastTTL)

	group := IPv6Group(scope)
	joined := 0
	for _, iface := range ifaces {
		if err := pc.JoinGroup(&iface, &net.UDPAddr{IP: group}); err != nil {
			logJoinError(logger, group, iface, err)
			continue
		}
		joined++
	}

	logListening(logger, IPv6ListenAddress)

	return &receiver6{pc: pc, scope: scope, logger: logger}, nil
}

// Read reads the next packet from the IPv6 receiver socket.
func (r *receiver6) Read() (*Packet, error) {
	buf := getBuffer()

	n, cm, src, err := r.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		logReadError(r.logger, IPv6GroupAddress(r.scope), err)
		return nil, err
	}

	ifIndex := 0
	if cm != nil {
		ifIndex = cm.IfIndex
	}

	return &Packet{
		Endpoint: Endpoint{
			InterfaceIndex: ifIndex,
			Address:        src.(*net.UDPAddr),
		},
		Data: buf[:n],
	}, nil
}

// Close closes the receiver socket, aborting any in-flight Read.
func (r *receiver6) Close() error {
	return r.pc.Close()
}
