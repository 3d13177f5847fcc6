package mdns

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/miekg/dns"
)

var _ = Describe("normalizeAnswer", func() {
	It("marks the message authoritative with a standard query opcode and zero ID", func() {
		m := &dns.Msg{}
		m.Id = 12345
		m.Question = []dns.Question{{Name: "example.local.", Qtype: dns.TypeA}}

		normalizeAnswer(m)

		Expect(m.Response).To(BeTrue())
		Expect(m.Authoritative).To(BeTrue())
		Expect(m.Opcode).To(Equal(dns.OpcodeQuery))
		Expect(m.Id).To(Equal(uint16(0)))
		Expect(m.Question).To(BeEmpty())
		Expect(m.Rcode).To(Equal(dns.RcodeSuccess))
	})

	It("clears the recursion and authentication bits", func() {
		m := &dns.Msg{}
		m.RecursionDesired = true
		m.RecursionAvailable = true
		m.AuthenticatedData = true
		m.CheckingDisabled = true

		normalizeAnswer(m)

		Expect(m.RecursionDesired).To(BeFalse())
		Expect(m.RecursionAvailable).To(BeFalse())
		Expect(m.AuthenticatedData).To(BeFalse())
		Expect(m.CheckingDisabled).To(BeFalse())
	})
})

var _ = Describe("normalizeLegacyAnswer", func() {
	It("mirrors the query's ID and questions", func() {
		query := &dns.Msg{}
		query.Id = 999
		query.Question = []dns.Question{{Name: "host.local.", Qtype: dns.TypeA}}

		answer := &dns.Msg{}

		normalizeLegacyAnswer(answer, query)

		Expect(answer.Id).To(Equal(uint16(999)))
		Expect(answer.Question).To(Equal(query.Question))
		Expect(answer.Authoritative).To(BeTrue())
	})
})

var _ = Describe("Engine.SendAnswer", func() {
	It("returns ErrNotStarted when the engine has no transport", func() {
		e, err := New()
		Expect(err).NotTo(HaveOccurred())

		m := &dns.Msg{}
		m.Answer = []dns.RR{&dns.A{Hdr: dns.RR_Header{Name: "host.local.", Rrtype: dns.TypeA, Ttl: 120}}}

		err = e.SendAnswer(m, true, nil)
		Expect(err).To(Equal(ErrNotStarted))
	})
})
