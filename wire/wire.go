// Package wire implements the mDNS wire codec: RFC 1035 message
// encoding/decoding as amended by the mDNS-specific bit overlays on the
// class field (RFC 6762 section 18.12, 18.13) and the truncation policy
// used when an outbound answer would exceed the maximum mDNS payload.
//
// The heavy lifting of name compression, pointer-cycle detection, and
// per-record-type rdata parsing is delegated to github.com/miekg/dns;
// this package is concerned only with the mDNS-specific rules layered
// on top of it.
package wire

import (
	"errors"
	"sync"

	"github.com/miekg/dns"
)

// MaxUDPPayload is the maximum mDNS packet size (9000 bytes) per
// RFC 6762 section 17.
const MaxUDPPayload = 9000

// IPUDPOverhead is the reserved byte count for IP and UDP headers,
// subtracted from MaxUDPPayload to bound the DNS message itself.
const IPUDPOverhead = 48

// MaxPayloadSize is the maximum size, in bytes, of an encoded DNS
// message that may be sent as a single mDNS datagram.
const MaxPayloadSize = MaxUDPPayload - IPUDPOverhead

// ErrMalformedMessage indicates that a byte slice could not be decoded
// as a well-formed DNS message.
var ErrMalformedMessage = errors.New("wire: malformed mDNS message")

// ErrMessageTooLarge indicates that a message could not be encoded
// within the requested size bound.
var ErrMessageTooLarge = errors.New("wire: message exceeds maximum mDNS payload size")

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, MaxUDPPayload)
	},
}

func getBuffer() []byte {
	return bufferPool.Get().([]byte)
}

func putBuffer(buf []byte) {
	if cap(buf) >= MaxUDPPayload {
		bufferPool.Put(buf[:MaxUDPPayload])
	}
}

// Decode parses a DNS message from b.
//
// A truncated-known-answer framing (RFC 6762 section 18.5) is not
// itself treated as malformed: mDNS queries may legitimately set TC to
// indicate that further known-answer records follow in a subsequent
// packet. Such a message decodes without error and reports the framing
// through m.Truncated. Any failure of (*dns.Msg).Unpack is reported as
// ErrMalformedMessage.
func Decode(b []byte) (*dns.Msg, error) {
	m := new(dns.Msg)

	if err := m.Unpack(b); err != nil {
		return nil, ErrMalformedMessage
	}

	return m, nil
}

// Encode serializes m, failing with ErrMessageTooLarge if the result
// would exceed MaxPayloadSize.
func Encode(m *dns.Msg) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	out, err := m.PackBuffer(buf)
	if err != nil {
		return nil, ErrMalformedMessage
	}

	if len(out) > MaxPayloadSize {
		return nil, ErrMessageTooLarge
	}

	cp := make([]byte, len(out))
	copy(cp, out)
	return cp, nil
}

// Len returns the encoded length of m without retaining the buffer,
// used by Truncate to probe candidate message sizes cheaply.
func Len(m *dns.Msg) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	out, err := m.PackBuffer(buf)
	if err != nil {
		return 0, ErrMalformedMessage
	}

	return len(out), nil
}
