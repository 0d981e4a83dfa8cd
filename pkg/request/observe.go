package request

import (
	"net/http"
	"time"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// Observer wraps a RoundTripper and reports every completed request to the
// settings' status handler, logging it first when trace is enabled.
type Observer struct {
	base     http.RoundTripper
	settings *connection.Settings
}

// NewObserver freezes s and wraps base; a nil base means http.DefaultTransport.
func NewObserver(base http.RoundTripper, s *connection.Settings) *Observer {
	if base == nil {
		base = http.DefaultTransport
	}
	s.Freeze()
	return &Observer{base: base, settings: s}
}

func (o *Observer) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := o.base.RoundTrip(req)

	st := connection.Status{
		Method:   req.Method,
		URL:      req.URL.Redacted(),
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		st.StatusCode = resp.StatusCode
	}

	if o.settings.TraceEnabled() {
		logger := o.settings.Logger()
		logger.Debug().
			Str("method", st.Method).
			Str("url", st.URL).
			Int("status_code", st.StatusCode).
			Dur("duration", st.Duration).
			AnErr("error", err).
			Msg("trace")
	}

	o.settings.StatusHandler()(st)
	return resp, err
}

// CloseIdleConnections forwards to the wrapped transport when it supports it.
func (o *Observer) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if c, ok := o.base.(closeIdler); ok {
		c.CloseIdleConnections()
	}
}
