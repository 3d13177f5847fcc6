package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/dogmatiq/dodeca/logging"
	ipv4x "golang.org/x/net/ipv4"
	ipv6x "golang.org/x/net/ipv6"
)

// sender is a single outbound mDNS socket bound to one local unicast
// address, used to transmit on the matching interface.
type sender struct {
	local net.IP
	iface net.Interface
	isV4  bool
	scope Scope

	udp  net.PacketConn
	pc4  *ipv4x.PacketConn
	pc6  *ipv6x.PacketConn

	logger logging.Logger
}

func newSender(iface net.Interface, local net.IP, scope Scope, logger logging.Logger) (*sender, error) {
	isV4 := local.To4() != nil

	network := "udp6"
	if isV4 {
		network = "udp4"
	}

	addr := &net.UDPAddr{IP: local, Port: Port}

	lc := net.ListenConfig{Control: reuseAddrControl}
	conn, err := lc.ListenPacket(context.Background(), network, addr.String())
	if err != nil {
		return nil, err
	}

	s := &sender{
		local:  local,
		iface:  iface,
		isV4:   isV4,
		scope:  resolvedScope(scope),
		udp:    conn,
		logger: logger,
	}

	if isV4 {
		s.pc4 = ipv4x.NewPacketConn(conn)
		_ = s.pc4.SetMulticastTTL(MulticastTTL)
		_ = s.pc4.SetTTL(MulticastTTL)

		if err := s.pc4.JoinGroup(&iface, &net.UDPAddr{IP: IPv4Group}); err != nil {
			conn.Close()
			return nil, err
		}
	} else {
		s.pc6 = ipv6x.NewPacketConn(conn)
		_ = s.pc6.SetMulticastHopLimit(MulticastTTL)
		_ = s.pc6.SetHopLimit(MulticastTTL)

		if err := s.pc6.JoinGroup(&iface, &net.UDPAddr{IP: IPv6Group(s.scope)}); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *sender) send(dest Endpoint, data []byte) error {
	if s.isV4 {
		_, err := s.pc4.WriteTo(data, &ipv4x.ControlMessage{IfIndex: s.iface.Index}, dest.Address)
		return err
	}

	_, err := s.pc6.WriteTo(data, &ipv6x.ControlMessage{IfIndex: s.iface.Index}, dest.Address)
	return err
}

func (s *sender) close() error {
	return s.udp.Close()
}

// isAddressNotAvailable reports whether err represents a transient
// EADDRNOTAVAIL failure, as happens when a VPN-assigned address is
// withdrawn between interface enumeration and socket construction.
func isAddressNotAvailable(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}

	var sysErr *os.SyscallError
	if !errors.As(opErr.Err, &sysErr) {
		return false
	}

	return errors.Is(sysErr.Err, syscall.EADDRNOTAVAIL)
}
