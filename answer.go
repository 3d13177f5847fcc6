package mdns

import (
	"github.com/dissolve/mdnscore/transport"
	"github.com/dissolve/mdnscore/wire"
	"github.com/miekg/dns"
)

// normalizeAnswer resets the header fields of an outbound answer to the
// values RFC 6762 section 18 mandates for multicast responses:
// authoritative, standard opcode, ID zero, no questions, and every
// "must be zero" bit cleared.
func normalizeAnswer(m *dns.Msg) {
	m.Response = true
	m.Authoritative = true
	m.Opcode = dns.OpcodeQuery
	m.Id = 0
	m.Question = nil
	m.RecursionDesired = false
	m.RecursionAvailable = false
	m.Zero = false
	m.AuthenticatedData = false
	m.CheckingDisabled = false
	m.Rcode = dns.RcodeSuccess
	m.Truncated = false
	m.Compress = true
}

// normalizeLegacyAnswer additionally mirrors the query's ID and
// questions, per RFC 6762 section 6.7: a legacy unicast response must
// look like a conventional DNS reply to the query that elicited it.
func normalizeLegacyAnswer(m *dns.Msg, query *dns.Msg) {
	normalizeAnswer(m)
	m.Id = query.Id
	m.Question = query.Question
}

// SendAnswer normalizes answer, applies the outbound TTL policy, and
// truncates and sends it. If unicastEndpoint is non-nil, the packet is
// sent via the dedicated unicast socket matching its family; otherwise
// it is multicast via the transport.
//
// If checkDuplicate is true, the packet is dropped silently when its
// encoded bytes match one sent within the last second.
//
// If EnableUnicastAnswers is false, unicastEndpoint is ignored and the
// packet is multicast.
func (e *Engine) SendAnswer(answer *dns.Msg, checkDuplicate bool, unicastEndpoint *transport.Endpoint) error {
	normalizeAnswer(answer)
	e.updateTTL(answer, false)

	return e.sendNormalizedAnswer(answer, checkDuplicate, unicastEndpoint)
}

// SendAnswerToQuery is the query-aware form of SendAnswer. If query was
// received via a legacy-unicast endpoint (source port other than
// 5353), the answer is normalized as a legacy reply (ID and questions
// mirrored from query, TTLs clamped to LegacyUnicastMaxTTL) and sent
// unicast to endpoint. Otherwise it delegates to SendAnswer.
func (e *Engine) SendAnswerToQuery(answer *dns.Msg, query *dns.Msg, checkDuplicate bool, endpoint transport.Endpoint) error {
	if !e.EnableUnicastAnswers || !endpoint.IsLegacy() {
		return e.SendAnswer(answer, checkDuplicate, nil)
	}

	normalizeLegacyAnswer(answer, query)
	e.updateTTL(answer, true)

	return e.sendNormalizedAnswer(answer, checkDuplicate, &endpoint)
}

func (e *Engine) sendNormalizedAnswer(answer *dns.Msg, checkDuplicate bool, unicastEndpoint *transport.Endpoint) error {
	e.mu.Lock()
	t := e.transport
	e.mu.Unlock()

	if t == nil {
		return ErrNotStarted
	}

	truncated, err := wire.Truncate(answer, wire.MaxPayloadSize)
	if err != nil {
		return err
	}

	data, err := wire.Encode(truncated)
	if err != nil {
		return err
	}

	if checkDuplicate && !e.outboundDedup.TryAdd(data) {
		return nil
	}

	if unicastEndpoint != nil && e.EnableUnicastAnswers {
		return e.sendUnicast(*unicastEndpoint, data)
	}

	return t.Send(data)
}

func (e *Engine) sendUnicast(endpoint transport.Endpoint, data []byte) error {
	e.mu.Lock()
	conn4, conn6 := e.unicast4, e.unicast6
	e.mu.Unlock()

	if endpoint.Address.IP.To4() != nil {
		if conn4 == nil {
			return ErrNotStarted
		}
		_, err := conn4.WriteToUDP(data, endpoint.Address)
		return err
	}

	if conn6 == nil {
		return ErrNotStarted
	}
	_, err := conn6.WriteToUDP(data, endpoint.Address)
	return err
}
