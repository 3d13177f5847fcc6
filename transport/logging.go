package transport

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

func logListening(logger logging.Logger, addr *net.UDPAddr) {
	logging.Debug(logger, "listening for mDNS requests on %s", addr)
}

func logListenError(logger logging.Logger, addr *net.UDPAddr, err error) {
	logging.Log(logger, "unable to listen for mDNS requests on %s: %s", addr, err)
}

func logJoinError(logger logging.Logger, group net.IP, iface net.Interface, err error) {
	logging.Debug(logger, "unable to join the '%s' multicast group on the '%s' interface: %s", group, iface.Name, err)
}

func logReadError(logger logging.Logger, addr *net.UDPAddr, err error) {
	logging.Log(logger, "unable to read mDNS packet via %s: %s", addr, err)
}
