package device

import (
	"context"
	"testing"

	"github.com/use-agent/printprobe/config"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	var seen []string
	r.Observe(func(c Change) { seen = append(seen, c.DeviceID) })

	up := &fakeFetcher{pages: []string{fixture(t, "ET-8500.html")}}
	down := &fakeFetcher{err: errRefused}
	for _, s := range []*Session{
		NewSession(config.DeviceConfig{ID: "b", Host: "192.0.2.2"}, up, 3),
		NewSession(config.DeviceConfig{ID: "a", Host: "192.0.2.1"}, down, 3),
	} {
		if err := r.Add(s); err != nil {
			t.Fatalf("Add(%s): %v", s.ID(), err)
		}
	}
	if err := r.Add(NewSession(config.DeviceConfig{ID: "a", Host: "192.0.2.9"}, down, 3)); err == nil {
		t.Error("duplicate id accepted")
	}

	list := r.List()
	if len(list) != 2 || list[0].ID() != "b" || list[1].ID() != "a" {
		t.Fatalf("List() order wrong: %v", list)
	}
	for _, s := range list {
		s.Refresh(context.Background())
	}
	if len(seen) != 2 {
		t.Errorf("observer saw %v", seen)
	}

	st := r.Stats()
	if st.Total != 2 || st.Available != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found a session")
	}
}

func TestSession_Sensors(t *testing.T) {
	s := newTestSession(&fakeFetcher{pages: []string{fixture(t, "ET-8500.html")}})
	s.Refresh(context.Background())

	keys := s.AvailableSensors()
	want := []string{"BK", "PB", "GY", "C", "M", "Y", "clean", "printer_status"}
	if len(keys) != len(want) {
		t.Fatalf("sensors = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("sensors = %v, want %v", keys, want)
		}
	}

	r, ok := s.Sensor("photoblack")
	if !ok || r.Key != "PB" || r.Value != 38 || r.Unit != "%" {
		t.Errorf("Sensor(photoblack) = %+v, %v", r, ok)
	}
	if _, ok := s.Sensor("model"); ok {
		t.Error("model exposed as a sensor")
	}
}

func TestSession_SensorsUnavailable(t *testing.T) {
	s := newTestSession(&fakeFetcher{err: errRefused})
	s.Refresh(context.Background())
	got := s.Sensors()
	if len(got) != 1 || got[0].Key != "printer_status" || got[0].Value != UnknownStatus {
		t.Errorf("Sensors() = %+v", got)
	}
}

func TestLookupSensor(t *testing.T) {
	for key, want := range map[string]string{
		"BK":             "BK",
		"Black":          "BK",
		"lightcyan":      "LC",
		"waste":          "clean",
		"clean":          "clean",
		"printer_status": "printer_status",
	} {
		st, ok := LookupSensor(key)
		if !ok || st.Key != want {
			t.Errorf("LookupSensor(%q) = %+v, %v; want %s", key, st, ok, want)
		}
	}
	if _, ok := LookupSensor("nope"); ok {
		t.Error("LookupSensor(nope) found an entry")
	}
}
