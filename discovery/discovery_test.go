package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"

	"github.com/use-agent/printprobe/config"
)

func entry(instance, hostname string, ipv4 string, text ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, "_ipp._tcp", "local.")
	e.HostName = hostname
	if ipv4 != "" {
		e.AddrIPv4 = []net.IP{net.ParseIP(ipv4)}
	}
	e.Text = text
	return e
}

func TestCandidateFrom(t *testing.T) {
	tests := []struct {
		name  string
		entry *zeroconf.ServiceEntry
		want  Candidate
		ok    bool
	}{
		{
			name:  "instance name",
			entry: entry("EPSON WF-3540 Series", "EPSON053D87.local.", "192.168.178.31"),
			want:  Candidate{ID: "epson053d87", Host: "192.168.178.31", Instance: "EPSON WF-3540 Series"},
			ok:    true,
		},
		{
			name:  "txt model",
			entry: entry("Office printer", "EPSON0C9E89.local.", "10.0.0.7", "ty=EPSON ET-8500 Series", "usb_MFG=EPSON"),
			want:  Candidate{ID: "epson0c9e89", Host: "10.0.0.7", Instance: "Office printer", Model: "EPSON ET-8500 Series"},
			ok:    true,
		},
		{
			name:  "product only",
			entry: entry("Lab", "lab.local.", "10.0.0.8", "product=(EPSON L6270 Series)"),
			want:  Candidate{ID: "lab", Host: "10.0.0.8", Instance: "Lab", Model: "EPSON L6270 Series"},
			ok:    true,
		},
		{
			name:  "no address falls back to hostname",
			entry: entry("EPSON XP-7100", "EPSONAABBCC.local.", ""),
			want:  Candidate{ID: "epsonaabbcc", Host: "EPSONAABBCC.local", Instance: "EPSON XP-7100"},
			ok:    true,
		},
		{
			name:  "other vendor",
			entry: entry("Brother HL-L2350DW", "BRW123.local.", "10.0.0.9", "ty=Brother HL-L2350DW", "usb_MFG=Brother"),
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := candidateFrom(tt.entry)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("candidate = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCandidate_DeviceConfig(t *testing.T) {
	d := Candidate{ID: "epson053d87", Host: "192.168.178.31"}.DeviceConfig()
	if d.ID != "epson053d87" || d.Host != "192.168.178.31" || d.Path != config.DefaultStatusPath {
		t.Errorf("DeviceConfig() = %+v", d)
	}
}

func TestTxtRecords(t *testing.T) {
	got := txtRecords([]string{"usb_MFG=EPSON", "ty=EPSON ET-8500 Series", "flag", "note=a=b"})
	want := map[string]string{"usb_mfg": "EPSON", "ty": "EPSON ET-8500 Series", "flag": "", "note": "a=b"}
	if len(got) != len(want) {
		t.Fatalf("txtRecords = %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("txtRecords[%q] = %q, want %q", k, got[k], v)
		}
	}
}
