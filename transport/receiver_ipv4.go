package transport

import (
	"context"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	ipvx "golang.org/x/net/ipv4"
)

// receiver is the IPv4 half of a Transport's receive side: a single
// wildcard-bound socket joined to the mDNS group on every usable
// interface.
type receiver struct {
	pc     *ipvx.PacketConn
	logger logging.Logger
}

// IPv4ListenAddress is the address to which the receiver binds for
// IPv4. The multicast group address itself is not used, so that group
// membership can be controlled precisely, per interface.
var IPv4ListenAddress = &net.UDPAddr{Port: Port}

func newReceiver4(ifaces []net.Interface, logger logging.Logger) (*receiver, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}

	conn, err := lc.ListenPacket(context.Background(), "udp4", IPv4ListenAddress.String())
	if err != nil {
		logListenError(logger, IPv4ListenAddress, err)
		return nil, err
	}

	pc := ipvx.NewPacketConn(conn)
	_ = pc.SetControlMessage(ipvx.FlagInterface, true)
	_ = pc.SetTTL(MulticastTTL)
	_ = pc.SetMulticastTTL(MulticastTTL)

	joined := 0
	for _, iface := range ifaces {
		if err := pc.JoinGroup(&iface, &net.UDPAddr{IP: IPv4Group}); err != nil {
			logJoinError(logger, IPv4Group, iface, err)
			continue
		}
		joined++
	}

	logListening(logger, IPv4ListenAddress)

	return &receiver{pc: pc, logger: logger}, nil
}

// Read reads the next packet from the IPv4 receiver socket.
func (r *receiver) Read() (*Packet, error) {
	buf := getBuffer()

	n, cm, src, err := r.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		logReadError(r.logger, IPv4GroupAddress, err)
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
func (r *receiver) Close() error {
	return r.pc.Close()
}
