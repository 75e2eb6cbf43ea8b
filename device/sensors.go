package device

import (
	"slices"
	"sort"
	"strings"

	"github.com/use-agent/printprobe/models"
)

// SensorType describes one value exposed as a sensor.
type SensorType struct {
	Key  string
	Name string
	Unit string
	Icon string
}

// SensorTypes is the sensor catalog in display order.
var SensorTypes = []SensorType{
	{Key: "BK", Name: "Ink level Black", Unit: "%", Icon: "mdi:water"},
	{Key: "PB", Name: "Ink level Photoblack", Unit: "%", Icon: "mdi:water"},
	{Key: "GY", Name: "Ink level Gray", Unit: "%", Icon: "mdi:water"},
	{Key: "C", Name: "Ink level Cyan", Unit: "%", Icon: "mdi:water"},
	{Key: "M", Name: "Ink level Magenta", Unit: "%", Icon: "mdi:water"},
	{Key: "Y", Name: "Ink level Yellow", Unit: "%", Icon: "mdi:water"},
	{Key: "LC", Name: "Ink level Light Cyan", Unit: "%", Icon: "mdi:water"},
	{Key: "LM", Name: "Ink level Light Magenta", Unit: "%", Icon: "mdi:water"},
	{Key: "clean", Name: "Cleaning level", Unit: "%", Icon: "mdi:broom"},
	{Key: "printer_status", Name: "Printer status", Icon: "mdi:printer"},
	{Key: "scanner_status", Name: "Scanner status", Icon: "mdi:scanner"},
}

// LookupSensor looks up a catalog entry by key or legacy alias.
func LookupSensor(key string) (SensorType, bool) {
	lower := strings.ToLower(key)
	if code, ok := models.ChannelCode(key); ok {
		key = code
	}
	if maintenanceNames[lower] {
		key = "clean"
	}
	for _, st := range SensorTypes {
		if st.Key == key {
			return st, true
		}
	}
	return SensorType{}, false
}

// Sensors returns a reading for every catalog sensor the device currently
// reports, followed by ink channels the catalog does not know.
// printer_status is always included.
func (s *Session) Sensors() []models.SensorReading {
	var out []models.SensorReading
	for _, st := range SensorTypes {
		if r, ok := s.Sensor(st.Key); ok {
			out = append(out, r)
		}
	}

	s.mu.RLock()
	var extra []string
	if s.available {
		for code := range s.record.Inks {
			if !slices.ContainsFunc(SensorTypes, func(st SensorType) bool { return st.Key == code }) {
				extra = append(extra, code)
			}
		}
	}
	s.mu.RUnlock()

	sort.Strings(extra)
	for _, code := range extra {
		if r, ok := s.Sensor(code); ok {
			out = append(out, r)
		}
	}
	return out
}

// Sensor reads a single sensor by catalog key, alias, or ink code.
func (s *Session) Sensor(key string) (models.SensorReading, bool) {
	v, ok := s.Get(key)
	if !ok {
		return models.SensorReading{}, false
	}
	st, known := LookupSensor(key)
	if !known {
		if _, isInt := v.(int); !isInt {
			return models.SensorReading{}, false
		}
		if code, ok := models.ChannelCode(key); ok {
			key = code
		}
		st = SensorType{Key: key, Name: "Ink level " + key, Unit: "%", Icon: "mdi:water"}
	}
	return models.SensorReading{
		Key:   st.Key,
		Name:  st.Name,
		Unit:  st.Unit,
		Icon:  st.Icon,
		Value: v,
	}, true
}

// AvailableSensors returns the keys Sensors would report right now.
func (s *Session) AvailableSensors() []string {
	readings := s.Sensors()
	keys := make([]string, len(readings))
	for i, r := range readings {
		keys[i] = r.Key
	}
	return keys
}
