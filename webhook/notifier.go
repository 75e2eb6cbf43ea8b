package webhook

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/models"
)

// Event types.
const (
	EventAvailable     = "device.available"
	EventUnavailable   = "device.unavailable"
	EventSupplyLow     = "supply.low"
	EventLayoutChanged = "device.layout_changed"
)

// SupplyLow is the data of a supply.low event.
type SupplyLow struct {
	Channel   string `json:"channel"`
	Level     int    `json:"level"`
	Threshold int    `json:"threshold"`
}

// Availability is the data of device.available and device.unavailable.
type Availability struct {
	Model         string              `json:"model,omitempty"`
	PrinterStatus string              `json:"printer_status,omitempty"`
	Error         *models.ErrorDetail `json:"error,omitempty"`
}

// Notifier turns device refreshes into webhook events.
type Notifier struct {
	url          string
	secret       string
	lowThreshold int
	send         func(*Event)

	mu   sync.Mutex
	seen map[string]bool
}

// NewNotifier delivers events to url asynchronously with retries.
func NewNotifier(url, secret string, lowThreshold int) *Notifier {
	n := &Notifier{
		url:          url,
		secret:       secret,
		lowThreshold: lowThreshold,
		seen:         make(map[string]bool),
	}
	n.send = func(e *Event) { DeliverAsync(n.url, n.secret, e) }
	return n
}

// Observe has the device.Observer signature. The first refresh of a
// device reports its availability; later refreshes report transitions.
func (n *Notifier) Observe(c device.Change) {
	for _, e := range n.events(c) {
		n.send(e)
	}
}

func (n *Notifier) events(c device.Change) []*Event {
	n.mu.Lock()
	first := !n.seen[c.DeviceID]
	n.seen[c.DeviceID] = true
	n.mu.Unlock()

	ts := c.At
	if ts.IsZero() {
		ts = time.Now()
	}
	event := func(typ string, data any) *Event {
		return &Event{Type: typ, DeviceID: c.DeviceID, Timestamp: ts.Unix(), Data: data}
	}

	var out []*Event
	switch {
	case c.Current == nil && (first || c.WasAvailable):
		a := Availability{}
		if c.Err != nil {
			a.Error = detail(c.Err)
		}
		out = append(out, event(EventUnavailable, a))
	case c.Current != nil && (first || !c.WasAvailable):
		out = append(out, event(EventAvailable, Availability{
			Model:         c.Current.Model,
			PrinterStatus: c.Current.PrinterStatus,
		}))
	}
	if c.Current == nil {
		return out
	}

	if c.LayoutChanged {
		out = append(out, event(EventLayoutChanged, nil))
	}
	for _, channel := range sortedChannels(c.Current.Inks) {
		level := c.Current.Inks[channel]
		if level > n.lowThreshold {
			continue
		}
		if c.Previous != nil {
			if prev, ok := c.Previous.Inks[channel]; ok && prev <= n.lowThreshold {
				continue
			}
		}
		out = append(out, event(EventSupplyLow, SupplyLow{
			Channel:   channel,
			Level:     level,
			Threshold: n.lowThreshold,
		}))
	}
	return out
}

func sortedChannels(inks map[string]int) []string {
	keys := make([]string, 0, len(inks))
	for k := range inks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func detail(err error) *models.ErrorDetail {
	var fe *models.FetchError
	if errors.As(err, &fe) {
		return fe.ToDetail()
	}
	return &models.ErrorDetail{Code: models.ErrCodeUnavailable, Message: err.Error()}
}
