package remote

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

var errUpstreamStatus = errors.New("upstream server error")

// BreakerTransport stops hammering a remote collaborator that keeps
// failing. Transport errors and 5xx answers count against the breaker;
// client-side statuses pass through untouched.
type BreakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

func NewBreakerTransport(name string, next http.RoundTripper) *BreakerTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	settings := gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &BreakerTransport{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

func (t *BreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			// counted as a failure, but the caller still gets the answer
			return resp, errUpstreamStatus
		}
		return resp, nil
	})
	if errors.Is(err, errUpstreamStatus) {
		return resp, nil
	}
	return resp, err
}
