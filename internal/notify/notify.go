package notify

import (
	"context"

	"go.uber.org/multierr"
)

// StatusNotifier posts the outcome of one monitor run to a channel.
type StatusNotifier interface {
	SendStatus(ctx context.Context, healthy bool) error
}

// Multi fans a status out to several channels. Every channel is tried;
// their errors are combined.
type Multi []StatusNotifier

func (m Multi) SendStatus(ctx context.Context, healthy bool) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.SendStatus(ctx, healthy))
	}
	return err
}
