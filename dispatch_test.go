package mdns

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dissolve/mdnscore/dedup"
	"github.com/dissolve/mdnscore/transport"
	"github.com/dogmatiq/dodeca/logging"
	"github.com/miekg/dns"
)

var _ = Describe("decodeInbound", func() {
	It("decodes a well-formed message", func() {
		m := new(dns.Msg)
		m.SetQuestion("host.local.", dns.TypeA)
		data, err := m.Pack()
		Expect(err).NotTo(HaveOccurred())

		decoded, err := decodeInbound(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Question).To(HaveLen(1))
	})

	It("rejects data that isn't a DNS message", func() {
		_, err := decodeInbound([]byte{0x00, 0x01, 0x02})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Engine.onDatagram", func() {
	var (
		e       *Engine
		remote  transport.Endpoint
		queries []QueryEvent
		answers []AnswerEvent
		badPkts []MalformedEvent
	)

	BeforeEach(func() {
		var err error
		e, err = New(UseLogger(logging.DiscardLogger{}))
		Expect(err).NotTo(HaveOccurred())

		e.inboundDedup = dedup.New()

		queries = nil
		answers = nil
		badPkts = nil

		e.OnQuery(func(ev QueryEvent) { queries = append(queries, ev) })
		e.OnAnswer(func(ev AnswerEvent) { answers = append(answers, ev) })
		e.OnMalformed(func(ev MalformedEvent) { badPkts = append(badPkts, ev) })
	})

	It("routes a query message to query subscribers", func() {
		m := new(dns.Msg)
		m.SetQuestion("host.local.", dns.TypeA)
		data, err := m.Pack()
		Expect(err).NotTo(HaveOccurred())

		e.onDatagram(remote, data)

		Expect(queries).To(HaveLen(1))
		Expect(answers).To(BeEmpty())
	})

	It("routes a response message with answers to answer subscribers", func() {
		m := new(dns.Msg)
		m.SetQuestion("host.local.", dns.TypeA)
		m.Response = true
		m.Answer = []dns.RR{&dns.A{Hdr: dns.RR_Header{Name: "host.local.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 120}}}
		data, err := m.Pack()
		Expect(err).NotTo(HaveOccurred())

		e.onDatagram(remote, data)

		Expect(answers).To(HaveLen(1))
		Expect(queries).To(BeEmpty())
	})

	It("emits a malformed event for undecodable data", func() {
		e.onDatagram(remote, []byte{0xff, 0xff, 0xff})

		Expect(badPkts).To(HaveLen(1))
	})

	It("silently ignores messages with a non-zero rcode", func() {
		m := new(dns.Msg)
		m.SetQuestion("host.local.", dns.TypeA)
		m.Rcode = dns.RcodeServerFailure
		data, err := m.Pack()
		Expect(err).NotTo(HaveOccurred())

		e.onDatagram(remote, data)

		Expect(queries).To(BeEmpty())
		Expect(answers).To(BeEmpty())
		Expect(badPkts).To(BeEmpty())
	})

	It("drops an exact duplicate datagram when duplicate suppression is enabled", func() {
		e.IgnoreDuplicateMessages = true

		m := new(dns.Msg)
		m.SetQuestion("host.local.", dns.TypeA)
		data, err := m.Pack()
		Expect(err).NotTo(HaveOccurred())

		e.onDatagram(remote, data)
		e.onDatagram(remote, data)

		Expect(queries).To(HaveLen(1))
	})
})
