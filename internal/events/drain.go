package events

import (
	"context"
	"time"
)

// Drain consumes events until the channel is closed, invoking fn for each
// one. When no event arrives for the keepalive interval, a keepalive event
// is synthesized so idle consumers (for example SSE clients behind
// proxies) keep the connection alive.
//
// Drain returns nil once the channel closes, the context error if the
// context is cancelled, or the first error returned by fn.
func (c *Channel) Drain(ctx context.Context, fn func(Event) error) error {
	if c == nil {
		return nil
	}
	timer := time.NewTimer(c.keepalive)
	defer timer.Stop()

	for {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.keepalive)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-c.ch:
			if !ok {
				return nil
			}
			if err := fn(ev); err != nil {
				return err
			}
		case <-timer.C:
			if err := fn(Event{Type: TypeKeepalive}); err != nil {
				return err
			}
		}
	}
}
