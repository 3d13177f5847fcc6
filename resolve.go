package mdns

import (
	"context"
	"strings"

	"github.com/miekg/dns"
)

// Resolve sends request as a query and waits for the first inbound
// answer whose Answer section contains a record for every question
// name in request. It returns ErrCancelled if ctx is done first.
//
// The caller's subscription is torn down before Resolve returns, in
// every case.
func (e *Engine) Resolve(ctx context.Context, request *dns.Msg) (*dns.Msg, error) {
	results := make(chan *dns.Msg, 1)

	sub := e.OnAnswer(func(ev AnswerEvent) {
		if answersRequest(ev.Message, request) {
			select {
			case results <- ev.Message:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	if err := e.SendQuery(request); err != nil {
		return nil, err
	}

	select {
	case m := <-results:
		return m, nil
	case <-ctx.Done():
		return nil, ErrCancelled
	}
}

// answersRequest reports whether answer's Answer section contains at
// least one record named after each question in request.
func answersRequest(answer, request *dns.Msg) bool {
	for _, q := range request.Question {
		found := false
		for _, rr := range answer.Answer {
			if strings.EqualFold(rr.Header().Name, q.Name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
