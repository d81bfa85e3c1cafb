package sink

import (
	"context"
	"errors"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Fanout publishes to several sinks in order.
//
// Every sink is attempted; the errors of all failing sinks are joined.
type Fanout []types.ResultSink

var _ types.ResultSink = Fanout(nil)

// Publish publishes res to every sink.
func (f Fanout) Publish(ctx context.Context, res *types.Result) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
