//go:build windows

package transport

import "syscall"

// reuseAddrControl is a no-op on Windows: winsock's SO_REUSEADDR
// semantics differ enough from POSIX that enabling it would permit
// silently stealing another process's bound socket instead of sharing
// the multicast group, so the default (first bind wins) is kept.
func reuseAddrControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
