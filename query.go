package mdns

import (
	"github.com/dissolve/mdnscore/wire"
	"github.com/miekg/dns"
)

// SendQuery applies the outbound TTL policy to message and multicasts
// it, bypassing outbound duplicate suppression: queries are one-shot by
// nature and re-sends (e.g. periodic polling) are expected to look
// identical.
func (e *Engine) SendQuery(message *dns.Msg) error {
	e.mu.Lock()
	t := e.transport
	e.mu.Unlock()

	if t == nil {
		return ErrNotStarted
	}

	e.updateTTL(message, false)

	data, err := wire.Encode(message)
	if err != nil {
		return err
	}

	return t.Send(data)
}

// SendQueryFor builds and sends a minimal query for name, with the
// given class (typically dns.ClassINET) and type (typically
// dns.TypeANY).
func (e *Engine) SendQueryFor(name string, class, qtype uint16) error {
	return e.SendQuery(newQueryMessage(name, class, qtype, false))
}

// SendUnicastQueryFor builds and sends a minimal query for name with
// the QU bit set, requesting a unicast reply.
func (e *Engine) SendUnicastQueryFor(name string, class, qtype uint16) error {
	return e.SendQuery(newQueryMessage(name, class, qtype, true))
}

func newQueryMessage(name string, class, qtype uint16, unicastResponse bool) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Question[0].Qclass = class

	if unicastResponse {
		m.Question[0] = wire.WithUnicastResponse(m.Question[0], true)
	}

	return m
}
