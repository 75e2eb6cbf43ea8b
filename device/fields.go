package device

import (
	"errors"
	"strings"

	"github.com/use-agent/printprobe/models"
)

var maintenanceNames = map[string]bool{
	"clean":           true,
	"maintenance":     true,
	"maintenance_box": true,
	"waste":           true,
}

const (
	networkPrefix    = "network."
	wifiDirectPrefix = "wifi_direct."
)

// lookup resolves field against rec, which is nil when the device is
// unavailable.
func lookup(rec *models.Record, counters models.UsageCounters, available bool, field string) (any, bool) {
	switch field {
	case "available":
		return available, true
	case "printer_status":
		if rec != nil && rec.PrinterStatus != "" {
			return rec.PrinterStatus, true
		}
		return UnknownStatus, true
	case "model":
		if rec != nil && rec.Model != "" {
			return rec.Model, true
		}
		return models.DefaultModel, true
	}
	if rec == nil {
		return nil, false
	}

	switch field {
	case "scanner_status":
		return nonEmpty(rec.ScannerStatus)
	case "name":
		return nonEmpty(rec.Name)
	case "mac_address":
		return nonEmpty(rec.MACAddress)
	case "ip_address":
		return nonEmpty(rec.IPAddress)
	case "source":
		return nonEmpty(rec.Source)
	}

	if label, ok := strings.CutPrefix(field, networkPrefix); ok {
		return tableLookup(rec.Network, label)
	}
	if label, ok := strings.CutPrefix(field, wifiDirectPrefix); ok {
		return tableLookup(rec.WiFiDirect, label)
	}

	lower := strings.ToLower(field)
	if maintenanceNames[lower] {
		if rec.MaintenanceBox == nil {
			return nil, false
		}
		return *rec.MaintenanceBox, true
	}
	if v, ok := counters.Field(lower); ok {
		return v, true
	}
	if code, ok := models.ChannelCode(field); ok {
		if v, ok := rec.Inks[code]; ok {
			return v, true
		}
	}
	return nil, false
}

func nonEmpty(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}

func tableLookup(table map[string]string, label string) (any, bool) {
	v, ok := table[label]
	if !ok {
		return nil, false
	}
	return v, true
}

func errorDetail(err error) *models.ErrorDetail {
	var fe *models.FetchError
	if errors.As(err, &fe) {
		return fe.ToDetail()
	}
	return &models.ErrorDetail{Code: models.ErrCodeUnavailable, Message: err.Error()}
}
