// Package device keeps the polled state of each printer: whether it
// answered its last refresh, and the last record parsed from it.
package device

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/models"
	"github.com/use-agent/printprobe/parser"
	"github.com/use-agent/printprobe/simhash"
)

// UnknownStatus is reported for printer_status when none is known.
const UnknownStatus = "Unknown"

// Fetcher reads device pages. *scraper.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, host, path string) (string, error)
	FetchUsage(ctx context.Context, host string) models.UsageCounters
}

// Change describes the outcome of one refresh.
type Change struct {
	DeviceID     string
	WasAvailable bool
	Available    bool

	// Previous is the last good record before this refresh, nil if none.
	Previous *models.Record
	// Current is the record parsed by this refresh, nil when it failed.
	Current *models.Record
	Usage   models.UsageCounters

	LayoutChanged bool
	Err           error
	Duration      time.Duration
	At            time.Time
}

// Observer is notified after every refresh, outside the session's locks.
type Observer func(Change)

// Session is one polled device. Refreshes are serialized; reads may run
// concurrently with a refresh and see the state of the last completed one.
type Session struct {
	id        string
	host      string
	path      string
	scheme    string
	usage     bool
	threshold int
	fetcher   Fetcher

	refreshMu sync.Mutex

	mu          sync.RWMutex
	available   bool
	record      *models.Record
	counters    models.UsageCounters
	page        string
	layout      uint64
	lastErr     error
	lastRefresh time.Time
	observers   []Observer
}

// NewSession creates a session for a configured device. No request is
// made until the first Refresh.
func NewSession(cfg config.DeviceConfig, f Fetcher, layoutThreshold int) *Session {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	path := cfg.Path
	if path == "" {
		path = config.DefaultStatusPath
	}
	id := cfg.ID
	if id == "" {
		id = cfg.Host
	}
	return &Session{
		id:        id,
		host:      cfg.Host,
		path:      path,
		scheme:    scheme,
		usage:     cfg.Usage != nil && *cfg.Usage,
		threshold: layoutThreshold,
		fetcher:   f,
	}
}

func (s *Session) ID() string   { return s.id }
func (s *Session) Host() string { return s.host }
func (s *Session) Path() string { return s.path }

// BaseURL is the scheme and host the session reads from.
func (s *Session) BaseURL() string {
	return s.scheme + "://" + s.host
}

// Observe registers o for every later refresh.
func (s *Session) Observe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Refresh fetches and parses the status page and reports whether the
// device answered. It waits for a refresh already in progress.
func (s *Session) Refresh(ctx context.Context) bool {
	return s.RefreshWithUsage(ctx, s.usage)
}

// RefreshWithUsage is Refresh with an explicit choice about probing the
// usage pages.
func (s *Session) RefreshWithUsage(ctx context.Context, usage bool) bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refresh(ctx, usage)
}

// TryRefresh refreshes unless another refresh of this device is still
// running, in which case it returns immediately with ran == false.
func (s *Session) TryRefresh(ctx context.Context) (available, ran bool) {
	if !s.refreshMu.TryLock() {
		return false, false
	}
	defer s.refreshMu.Unlock()
	return s.refresh(ctx, s.usage), true
}

func (s *Session) refresh(ctx context.Context, usage bool) bool {
	start := time.Now()
	host := s.BaseURL()

	var (
		rec      models.Record
		counters models.UsageCounters
		layout   uint64
	)
	markup, err := s.fetcher.Fetch(ctx, host, s.path)
	if err == nil {
		rec = parser.Parse(markup, s.id)
		layout = simhash.Layout(markup)
		if usage {
			counters = s.fetcher.FetchUsage(ctx, host)
		}
	}

	s.mu.Lock()
	change := Change{
		DeviceID:     s.id,
		WasAvailable: s.available,
		Previous:     s.record,
		Err:          err,
		At:           time.Now(),
	}
	if err != nil {
		s.available = false
		s.lastErr = err
	} else {
		change.Current = &rec
		change.LayoutChanged = simhash.Changed(s.layout, layout, s.threshold)
		s.available = true
		s.record = &rec
		s.page = markup
		s.layout = layout
		s.lastErr = nil
		if usage {
			s.counters = counters
		}
		change.Usage = s.counters
	}
	s.lastRefresh = change.At
	change.Available = s.available
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	change.Duration = time.Since(start)
	s.logChange(change)
	for _, o := range observers {
		o(change)
	}
	return change.Available
}

func (s *Session) logChange(c Change) {
	switch {
	case c.Err != nil && c.WasAvailable:
		slog.Warn("device became unavailable", "device", s.id, "host", s.host, "error", c.Err)
	case c.Err != nil:
		slog.Debug("device still unavailable", "device", s.id, "host", s.host, "error", c.Err)
	case !c.WasAvailable:
		slog.Info("device available", "device", s.id, "host", s.host, "model", c.Current.Model)
	default:
		slog.Debug("device refreshed", "device", s.id, "duration", c.Duration)
	}
	if c.LayoutChanged {
		slog.Warn("device page layout changed", "device", s.id, "host", s.host)
	}
}

// Available reports whether the last refresh succeeded.
func (s *Session) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

// Model returns the detected model, or models.DefaultModel when the
// device is unavailable or the page named none.
func (s *Session) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.available && s.record.Model != "" {
		return s.record.Model
	}
	return models.DefaultModel
}

// MACAddress returns the device MAC, or "" when unknown or unavailable.
func (s *Session) MACAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.available {
		return ""
	}
	return s.record.MACAddress
}

// Get reads one named value. The bool is false for unknown names and for
// values the device did not report. printer_status and model always have
// a value.
func (s *Session) Get(field string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rec *models.Record
	var counters models.UsageCounters
	if s.available {
		rec = s.record
		counters = s.counters
	}
	return lookup(rec, counters, s.available, field)
}

// Record returns a copy of the last good record. It is returned even when
// the latest refresh failed, for diagnostics.
func (s *Session) Record() (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return models.Record{}, false
	}
	return s.record.Clone(), true
}

// Usage returns the last usage counters found.
func (s *Session) Usage() models.UsageCounters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// Page returns the raw markup of the last good refresh.
func (s *Session) Page() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.record != nil
}

// LastError returns the error of the last refresh, nil if it succeeded.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Status returns the API view of the session.
func (s *Session) Status() models.DeviceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.DeviceStatus{
		ID:            s.id,
		Host:          s.host,
		Path:          s.path,
		Available:     s.available,
		Model:         models.DefaultModel,
		PrinterStatus: UnknownStatus,
	}
	if !s.lastRefresh.IsZero() {
		t := s.lastRefresh
		st.LastRefresh = &t
	}
	if s.lastErr != nil {
		st.LastError = errorDetail(s.lastErr)
	}
	if s.available {
		rec := s.record.Clone()
		st.Record = &rec
		if rec.Model != "" {
			st.Model = rec.Model
		}
		if rec.PrinterStatus != "" {
			st.PrinterStatus = rec.PrinterStatus
		}
		if !s.counters.Empty() {
			u := s.counters
			st.Usage = &u
		}
	}
	return st
}
