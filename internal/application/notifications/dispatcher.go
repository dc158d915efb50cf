package notifications

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// FailureCounter records gateway failures. The metrics recorder implements it.
type FailureCounter interface {
	NotificationFailed(kind string)
}

// Dispatcher delivers events in the background. Delivery errors are logged and
// counted; they never reach the caller that triggered the event.
type Dispatcher struct {
	Notifier Notifier
	Failures FailureCounter

	wg sync.WaitGroup
}

// Dispatch starts delivery of e and returns immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if d == nil || d.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("listing_id", e.ListingID).Msg("notification gateway panicked")
				d.failed(e)
			}
		}()
		if err := d.Notifier.Notify(ctx, e); err != nil {
			log.Error().Err(err).Str("kind", string(e.Kind)).Str("listing_id", e.ListingID).Msg("notification delivery failed")
			d.failed(e)
			return
		}
		log.Debug().Str("kind", string(e.Kind)).Str("listing_id", e.ListingID).Msg("notification delivered")
	}()
}

// Wait blocks until every dispatched event has been handled. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) failed(e Event) {
	if d.Failures != nil {
		d.Failures.NotificationFailed(string(e.Kind))
	}
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes the rendered message to the log. It is the gateway used when
// no transport is configured.
type LogNotifier struct {
	Renderer *Renderer
}

func (n LogNotifier) Notify(_ context.Context, e Event) error {
	ev := log.Info().Str("kind", string(e.Kind)).Str("listing_id", e.ListingID)
	if n.Renderer != nil {
		subject, body, err := n.Renderer.Render(e)
		if err != nil {
			return err
		}
		ev = ev.Str("subject", subject).Str("body", body)
	}
	ev.Msg("listing notification")
	return nil
}
