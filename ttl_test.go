package mdns

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/miekg/dns"
)

var _ = Describe("Engine.updateTTL", func() {
	var e *Engine

	BeforeEach(func() {
		e = &Engine{
			HostRecordTTL: 120 * time.Second,
			NonHostTTL:    75 * time.Minute,
		}
	})

	It("assigns the host-record TTL to A, AAAA, SRV, HINFO, and PTR records", func() {
		m := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 1}},
				&dns.SRV{Hdr: dns.RR_Header{Rrtype: dns.TypeSRV, Ttl: 1}},
				&dns.AAAA{Hdr: dns.RR_Header{Rrtype: dns.TypeAAAA, Ttl: 1}},
				&dns.HINFO{Hdr: dns.RR_Header{Rrtype: dns.TypeHINFO, Ttl: 1}},
				&dns.PTR{Hdr: dns.RR_Header{Rrtype: dns.TypePTR, Ttl: 1}},
			},
		}

		e.updateTTL(m, false)

		Expect(m.Answer[0].Header().Ttl).To(Equal(uint32(120)))
		Expect(m.Answer[1].Header().Ttl).To(Equal(uint32(120)))
		Expect(m.Answer[2].Header().Ttl).To(Equal(uint32(120)))
		Expect(m.Answer[3].Header().Ttl).To(Equal(uint32(120)))
		Expect(m.Answer[4].Header().Ttl).To(Equal(uint32(120)))
	})

	It("assigns the non-host TTL to other record types", func() {
		m := &dns.Msg{
			Answer: []dns.RR{
				&dns.TXT{Hdr: dns.RR_Header{Rrtype: dns.TypeTXT, Ttl: 1}},
			},
		}

		e.updateTTL(m, false)

		Expect(m.Answer[0].Header().Ttl).To(Equal(uint32(75 * 60)))
	})

	It("preserves goodbye records whose TTL is already zero", func() {
		m := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 0}},
			},
		}

		e.updateTTL(m, false)

		Expect(m.Answer[0].Header().Ttl).To(Equal(uint32(0)))
	})

	It("clamps TTLs to at most ten seconds for legacy unicast responses", func() {
		m := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 1}},
			},
			Ns: []dns.RR{
				&dns.TXT{Hdr: dns.RR_Header{Rrtype: dns.TypeTXT, Ttl: 1}},
			},
		}

		e.updateTTL(m, true)

		Expect(m.Answer[0].Header().Ttl).To(Equal(uint32(10)))
		Expect(m.Ns[0].Header().Ttl).To(Equal(uint32(10)))
	})

	It("updates records in the Ns and Extra sections as well as Answer", func() {
		m := &dns.Msg{
			Ns:    []dns.RR{&dns.A{Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 1}}},
			Extra: []dns.RR{&dns.A{Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 1}}},
		}

		e.updateTTL(m, false)

		Expect(m.Ns[0].Header().Ttl).To(Equal(uint32(120)))
		Expect(m.Extra[0].Header().Ttl).To(Equal(uint32(120)))
	})
})
