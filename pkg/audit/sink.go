package audit

import (
	"errors"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/decision"
)

// Sink receives every decision the engine returns. Implementations must
// not block: the engine calls Record on the adjudication path and a slow
// sink would stall callers. A sink failure is advisory; the engine logs
// and counts it but still returns the decision.
type Sink interface {
	Record(d *decision.Decision, act *action.Action) error
}

// FanOut returns a sink handing each decision to every given sink. All
// sinks are attempted; failures are joined into one error.
func FanOut(sinks ...Sink) Sink {
	return &fanOutSink{sinks: sinks}
}

type fanOutSink struct {
	sinks []Sink
}

func (f *fanOutSink) Record(d *decision.Decision, act *action.Action) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Record(d, act); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
