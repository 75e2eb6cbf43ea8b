// Package poller refreshes every registered device on a fixed interval.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/printprobe/device"
)

// DefaultInterval matches the refresh period of the status sensors.
const DefaultInterval = 60 * time.Second

// Summary counts the outcome of one poll tick.
type Summary struct {
	Polled    int
	Skipped   int
	Available int
}

// Poller refreshes all devices in a registry concurrently. A device whose
// previous refresh is still running is skipped for that tick.
type Poller struct {
	registry *device.Registry
	interval time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup
}

func New(reg *device.Registry, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{registry: reg, interval: interval}
}

// Start polls immediately and then every interval until ctx is done or
// Stop is called. Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
	slog.Info("poller started", "devices", p.registry.Len(), "interval", p.interval)
}

// Stop ends the loop, cancels refreshes in flight and waits for them.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done
	p.inflight.Wait()
	slog.Info("poller stopped")
}

// PollOnce refreshes every device and waits for the tick to finish.
func (p *Poller) PollOnce(ctx context.Context) Summary {
	return p.dispatch(ctx).wait()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.dispatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dispatch(ctx)
		}
	}
}

type tick struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	sum Summary
}

func (t *tick) wait() Summary {
	t.wg.Wait()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum
}

func (p *Poller) dispatch(ctx context.Context) *tick {
	t := &tick{}
	for _, s := range p.registry.List() {
		t.wg.Add(1)
		p.inflight.Add(1)
		go func() {
			defer p.inflight.Done()
			defer t.wg.Done()

			available, ran := s.TryRefresh(ctx)
			if !ran {
				slog.Debug("poller: refresh still running, skipping", "device", s.ID())
			}
			t.mu.Lock()
			defer t.mu.Unlock()
			switch {
			case !ran:
				t.sum.Skipped++
			case available:
				t.sum.Polled++
				t.sum.Available++
			default:
				t.sum.Polled++
			}
		}()
	}
	return t
}
