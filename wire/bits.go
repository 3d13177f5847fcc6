package wire

import "github.com/miekg/dns"

// classMaskBit is the top bit of a 16-bit class field, overloaded by
// mDNS to mean "unicast response requested" on a question (RFC 6762
// section 18.12) or "cache-flush / unique record" on a resource record
// (RFC 6762 section 18.13).
const classMaskBit = 1 << 15

// classMask clears the overloaded top bit, leaving the effective class.
const classMask = classMaskBit - 1

// QuestionClass reports whether q requested a unicast response (the QU
// bit) and returns the effective class with that bit masked off.
//
// See https://tools.ietf.org/html/rfc6762#section-18.12.
func QuestionClass(q dns.Question) (unicastResponse bool, class uint16) {
	return q.Qclass&classMaskBit != 0, q.Qclass & classMask
}

// WithUnicastResponse returns a copy of q with the QU bit set or
// cleared according to want.
func WithUnicastResponse(q dns.Question, want bool) dns.Question {
	if want {
		q.Qclass |= classMaskBit
	} else {
		q.Qclass &^= classMaskBit
	}
	return q
}

// RecordClass reports whether rr carries the cache-flush bit and
// returns the effective class with that bit masked off. It does not
// mutate rr.
//
// See https://tools.ietf.org/html/rfc6762#section-18.13.
func RecordClass(rr dns.RR) (cacheFlush bool, class uint16) {
	h := rr.Header()
	return h.Class&classMaskBit != 0, h.Class & classMask
}

// IsUniqueRecord returns true if rr carries the cache-flush bit, along
// with a copy of rr with the bit cleared to reflect its true class.
func IsUniqueRecord(rr dns.RR) (bool, dns.RR) {
	flush, _ := RecordClass(rr)
	if !flush {
		return false, rr
	}

	rr = dns.Copy(rr)
	rr.Header().Class &^= classMaskBit
	return true, rr
}

// SetUniqueRecord returns a copy of rr with the cache-flush bit set.
func SetUniqueRecord(rr dns.RR) dns.RR {
	rr = dns.Copy(rr)
	rr.Header().Class |= classMaskBit
	return rr
}
