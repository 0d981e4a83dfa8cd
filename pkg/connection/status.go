package connection

import (
	"time"

	"github.com/rs/zerolog"
)

// Status describes the outcome of one completed request.
type Status struct {
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Success reports whether the request completed without a transport error
// and with a 2xx status code.
func (s Status) Success() bool {
	return s.Err == nil && s.StatusCode >= 200 && s.StatusCode < 300
}

// StatusHandler observes the outcome of every completed request.
type StatusHandler func(Status)

// NopStatusHandler ignores every status. It is the default handler.
func NopStatusHandler(Status) {}

// LogStatus returns a handler writing one log line per request: debug for
// successes, warn for non-2xx responses, error for transport failures.
func LogStatus(logger zerolog.Logger) StatusHandler {
	return func(st Status) {
		var ev *zerolog.Event
		switch {
		case st.Err != nil:
			ev = logger.Error().Err(st.Err)
		case !st.Success():
			ev = logger.Warn()
		default:
			ev = logger.Debug()
		}
		ev.Str("method", st.Method).
			Str("url", st.URL).
			Int("status_code", st.StatusCode).
			Dur("duration", st.Duration).
			Msg("request completed")
	}
}

// ChainStatusHandlers calls each non-nil handler in order.
func ChainStatusHandlers(handlers ...StatusHandler) StatusHandler {
	chain := make([]StatusHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			chain = append(chain, h)
		}
	}
	return func(st Status) {
		for _, h := range chain {
			h(st)
		}
	}
}
