package metrics

import (
	"time"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
)

// Result constants for metric tagging. Failure is a rejected credential;
// Error is an attempt the system could not complete.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// LoginMetric captures one authentication attempt for metric emission.
type LoginMetric struct {
	Result string
	Err    error
}

// EmitLoginAttempt emits standardised login attempt metrics.
func EmitLoginAttempt(sink statsd.Sink, in LoginMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"result": in.Result,
	}
	if in.Err != nil {
		if code := apperrors.CodeOf(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("auth.login", 1, tags)
}

// SweepMetric captures one expired-session sweep for metric emission.
type SweepMetric struct {
	Removed  int
	Duration time.Duration
	Err      error
}

// EmitSweep emits standardised sweep metrics.
func EmitSweep(sink statsd.Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	if in.Err != nil {
		result = ResultError
	} else if in.Removed == 0 {
		result = ResultNoop
	}

	tags := map[string]string{
		"result": result,
	}
	if in.Err != nil {
		if code := apperrors.CodeOf(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("sweeper.sweep", 1, tags)
	if in.Removed > 0 {
		sink.Count("sweeper.sessions_removed", int64(in.Removed), CloneTags(tags))
	}
	if in.Duration > 0 {
		sink.Timing("sweeper.sweep_duration", in.Duration, CloneTags(tags))
	}
	if in.Err == nil {
		sink.Gauge("sweeper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
