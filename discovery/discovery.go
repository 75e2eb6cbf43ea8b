// Package discovery finds Epson devices on the local network over
// mDNS/DNS-SD.
package discovery

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/use-agent/printprobe/config"
)

// ServiceTypes are the printer services browsed for.
var ServiceTypes = []string{"_ipp._tcp", "_ipps._tcp", "_printer._tcp", "_pdl-datastream._tcp"}

// Candidate is one discovered device.
type Candidate struct {
	ID       string `json:"id"`
	Host     string `json:"host"`
	Instance string `json:"instance"`
	Model    string `json:"model,omitempty"`
}

// DeviceConfig returns the device entry for c with the default status path.
func (c Candidate) DeviceConfig() config.DeviceConfig {
	return config.DeviceConfig{ID: c.ID, Host: c.Host, Path: config.DefaultStatusPath}
}

// Browse listens for wait (or until ctx is done) and returns the Epson
// devices seen, one per host, sorted by ID.
func Browse(ctx context.Context, wait time.Duration) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var (
		mu    sync.Mutex
		found = make(map[string]Candidate)
		wg    sync.WaitGroup
		errs  []error
	)
	for _, st := range ServiceTypes {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, err
		}
		entries := make(chan *zeroconf.ServiceEntry)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case e, ok := <-entries:
					if !ok {
						return
					}
					c, ok := candidateFrom(e)
					if !ok {
						continue
					}
					mu.Lock()
					if _, dup := found[c.Host]; !dup {
						found[c.Host] = c
						slog.Debug("discovery: found device", "host", c.Host, "instance", c.Instance, "service", st)
					}
					mu.Unlock()
				}
			}
		}()

		if err := resolver.Browse(ctx, st, "local.", entries); err != nil {
			slog.Warn("discovery: browse failed", "service", st, "error", err)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	<-ctx.Done()
	wg.Wait()

	if len(found) == 0 && len(errs) == len(ServiceTypes) {
		return nil, errs[0]
	}
	out := make([]Candidate, 0, len(found))
	for _, c := range found {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// candidateFrom keeps entries that identify as Epson by instance name or
// TXT record.
func candidateFrom(e *zeroconf.ServiceEntry) (Candidate, bool) {
	txt := txtRecords(e.Text)
	model := txt["ty"]
	if model == "" {
		model = strings.Trim(txt["product"], "()")
	}
	epson := strings.Contains(strings.ToUpper(e.Instance), "EPSON") ||
		strings.EqualFold(txt["usb_mfg"], "EPSON") ||
		strings.Contains(strings.ToUpper(model), "EPSON")
	if !epson {
		return Candidate{}, false
	}

	host := hostOf(e)
	if host == "" {
		return Candidate{}, false
	}
	id := strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(e.HostName, "."), ".local"))
	if id == "" {
		id = host
	}
	return Candidate{ID: id, Host: host, Instance: e.Instance, Model: model}, true
}

func hostOf(e *zeroconf.ServiceEntry) string {
	for _, ip := range e.AddrIPv4 {
		if ip != nil && !ip.IsUnspecified() {
			return ip.String()
		}
	}
	for _, ip := range e.AddrIPv6 {
		if ip != nil && !ip.IsUnspecified() && !ip.IsLinkLocalUnicast() {
			return "[" + ip.String() + "]"
		}
	}
	return strings.TrimSuffix(e.HostName, ".")
}

// txtRecords splits key=value TXT strings; keys are lowercased.
func txtRecords(text []string) map[string]string {
	out := make(map[string]string, len(text))
	for _, kv := range text {
		k, v, _ := strings.Cut(kv, "=")
		out[strings.ToLower(k)] = v
	}
	return out
}
