//go:build linux

package iface

import (
	"github.com/dogmatiq/dodeca/logging"
	"github.com/vishvananda/netlink"
)

// subscribePlatform subscribes to Linux netlink address and link change
// notifications, invoking onChange (with no arguments; the caller
// re-snapshots) whenever either fires.
func subscribePlatform(logger logging.Logger, onChange func()) (stop func(), err error) {
	addrCh := make(chan netlink.AddrUpdate)
	addrDone := make(chan struct{})
	if err := netlink.AddrSubscribe(addrCh, addrDone); err != nil {
		return nil, err
	}

	linkCh := make(chan netlink.LinkUpdate)
	linkDone := make(chan struct{})
	if err := netlink.LinkSubscribe(linkCh, linkDone); err != nil {
		close(addrDone)
		return nil, err
	}

	go func() {
		for {
			select {
			case _, ok := <-addrCh:
				if !ok {
					return
				}
				onChange()
			case _, ok := <-linkCh:
				if !ok {
					return
				}
				onChange()
			case <-addrDone:
				return
			}
		}
	}()

	return func() {
		close(addrDone)
		close(linkDone)
	}, nil
}
