package mdns

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/miekg/dns"
)

var _ = Describe("answersRequest", func() {
	It("matches when the answer contains a record for every question name", func() {
		request := new(dns.Msg)
		request.SetQuestion("host.local.", dns.TypeA)

		answer := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Name: "host.local.", Rrtype: dns.TypeA}},
			},
		}

		Expect(answersRequest(answer, request)).To(BeTrue())
	})

	It("does not match when no answer record names the question", func() {
		request := new(dns.Msg)
		request.SetQuestion("host.local.", dns.TypeA)

		answer := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Name: "other.local.", Rrtype: dns.TypeA}},
			},
		}

		Expect(answersRequest(answer, request)).To(BeFalse())
	})

	It("requires every question to be answered", func() {
		request := new(dns.Msg)
		request.SetQuestion("host.local.", dns.TypeA)
		request.Question = append(request.Question, dns.Question{Name: "other.local.", Qtype: dns.TypeA, Qclass: dns.ClassINET})

		answer := &dns.Msg{
			Answer: []dns.RR{
				&dns.A{Hdr: dns.RR_Header{Name: "host.local.", Rrtype: dns.TypeA}},
			},
		}

		Expect(answersRequest(answer, request)).To(BeFalse())
	})
})

var _ = Describe("Engine.Resolve", func() {
	It("returns ErrNotStarted when the engine has no transport, even with an already-expired context", func() {
		e, err := New()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		request := new(dns.Msg)
		request.SetQuestion("host.local.", dns.TypeA)

		_, err = e.Resolve(ctx, request)
		Expect(err).To(Equal(ErrNotStarted))
	})

	It("returns ErrNotStarted when the engine has no transport", func() {
		e, err := New()
		Expect(err).NotTo(HaveOccurred())

		request := new(dns.Msg)
		request.SetQuestion("host.local.", dns.TypeA)

		_, err = e.Resolve(context.Background(), request)
		Expect(err).To(Equal(ErrNotStarted))
	})
})
