package wire

import "github.com/miekg/dns"

// Truncate returns a copy of m whose encoded length is at most
// maxBytes, dropping trailing records from the Additional section
// first, then Authority, then Answers, until the bound is met. The TC
// (truncated) flag is set on the result iff any records were dropped.
// Questions are never dropped; if the header plus all questions alone
// would exceed maxBytes, Truncate fails with ErrMessageTooLarge.
func Truncate(m *dns.Msg, maxBytes int) (*dns.Msg, error) {
	out := m.Copy()

	n, err := Len(out)
	if err != nil {
		return nil, err
	}
	if n <= maxBytes {
		return out, nil
	}

	bare := out.Copy()
	bare.Answer = nil
	bare.Ns = nil
	bare.Extra = nil

	bareLen, err := Len(bare)
	if err != nil {
		return nil, err
	}
	if bareLen > maxBytes {
		return nil, ErrMessageTooLarge
	}

	dropped := false

	for _, section := range []*[]dns.RR{&out.Extra, &out.Ns, &out.Answer} {
		for len(*section) > 0 {
			n, err = Len(out)
			if err != nil {
				return nil, err
			}
			if n <= maxBytes {
				break
			}

			*section = (*section)[:len(*section)-1]
			dropped = true
		}

		n, err = Len(out)
		if err != nil {
			return nil, err
		}
		if n <= maxBytes {
			break
		}
	}

	if dropped {
		out.Truncated = true
	}

	return out, nil
}
