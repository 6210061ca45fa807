package notify

import (
	"context"
	"time"
)

// Poller emits synthetic poll events on a fixed interval. It is the degraded
// mode of the notification channel: if Pub/Sub drops everything, consumers
// still wake every interval and rescan.
type Poller struct {
	Interval time.Duration
}

// Run ticks until ctx is done. The returned channel closes on cancellation.
func (p *Poller) Run(ctx context.Context, roomCode string) <-chan Event {
	interval := p.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- Event{RoomCode: roomCode, Op: OpPoll}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
