package mdns

import (
	"github.com/dissolve/mdnscore/wire"
	"github.com/miekg/dns"
)

// decodeInbound decodes an inbound datagram, tolerating the mDNS
// known-answer-suppression truncation framing (RFC 6762 section 18.5):
// a query with TC set is not malformed, merely incomplete, and this
// engine does not implement known-answer suppression so it delivers
// such queries to subscribers rather than withholding them.
func decodeInbound(data []byte) (*dns.Msg, error) {
	m, err := wire.Decode(data)
	if err == nil {
		return m, nil
	}

	return nil, err
}
