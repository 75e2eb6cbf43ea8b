package render

import (
	"strings"
	"testing"
)

const statusPage = `<html><head><title>WF-3540 Series</title>
<style>.tank{height:50px}</style><script>var mac = "00:00:00:00:00:00";</script></head>
<body>
<fieldset id="PRT_STATUS"><ul><li class="value">Available.</li></ul></fieldset>
<table id="info-network">
  <tr><td class="item-key">SSID&nbsp;:</td><td class="item-value">CHAOS</td></tr>
  <tr><td class="item-key">IP Address&nbsp;:</td><td class="item-value">192.168.178.31</td></tr>
</table>
<a href="/PRESENTATION/HTML/TOP/INDEX.HTML">Top</a>
</body></html>`

func TestRender_Formats(t *testing.T) {
	r := New()
	tests := []struct {
		format  string
		want    []string
		notWant []string
	}{
		{
			format:  FormatMarkdown,
			want:    []string{"Available.", "CHAOS", "192.168.178.31", "http://192.0.2.10/PRESENTATION/HTML/TOP/INDEX.HTML"},
			notWant: []string{"var mac", ".tank"},
		},
		{
			format:  FormatHTML,
			want:    []string{`id="info-network"`, `class="item-value"`},
			notWant: []string{"<script", "<style"},
		},
		{
			format:  FormatText,
			want:    []string{"Available.", "CHAOS"},
			notWant: []string{"<", "var mac"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := r.Render(statusPage, tt.format, RegionAll, "http://192.0.2.10")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output contains %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRender_Selector(t *testing.T) {
	got, err := New().Render(statusPage, FormatText, "#info-network", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(got, "Available.") || !strings.Contains(got, "CHAOS") {
		t.Errorf("selector not applied:\n%s", got)
	}
}

const tankPage = `<html><body>
<div id="header"><span class="header">EPSON ET-8500</span><a href="/help">Help</a></div>
<fieldset id="PRT_STATUS"><div class="information"><span>Printing.</span></div></fieldset>
<ul>
<li class="tank"><div class="tank"><img class="color" height="25"></div><div class="clrname">BK</div></li>
<li class="tank"><div class="mbicn"></div><div class="tank"><img class="color" height="10"></div></li>
</ul>
<table id="info-network"><tr><td class="item-key">SSID :</td><td class="item-value">CHAOS</td></tr></table>
<table id="info-wfd"><tr><td class="item-key">SSID :</td><td class="item-value">DIRECT-ET8500</td></tr></table>
</body></html>`

func TestRender_DefaultRegions(t *testing.T) {
	got, err := New().Render(tankPage, FormatHTML, "", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, w := range []string{"Printing.", `class="clrname"`, `class="mbicn"`, "CHAOS", "DIRECT-ET8500"} {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
	if strings.Contains(got, "Help") {
		t.Errorf("page chrome kept:\n%s", got)
	}
	if strings.Count(got, "Printing.") != 1 {
		t.Errorf("nested status region rendered twice:\n%s", got)
	}
	status, network := strings.Index(got, "Printing."), strings.Index(got, "CHAOS")
	if status > network {
		t.Errorf("regions out of document order:\n%s", got)
	}
}

func TestRender_NamedRegion(t *testing.T) {
	tests := []struct {
		region  string
		want    string
		notWant string
	}{
		{RegionStatus, "Printing.", "CHAOS"},
		{RegionTanks, `class="clrname"`, "Printing."},
		{RegionNetwork, "CHAOS", "DIRECT-ET8500"},
		{RegionWiFiDirect, "DIRECT-ET8500", "CHAOS"},
		{RegionAll, "Help", "<script"},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := New().Render(tankPage, FormatHTML, tt.region, "")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(got, tt.want) || strings.Contains(got, tt.notWant) {
				t.Errorf("Render(%s) =\n%s", tt.region, got)
			}
		})
	}
}

func TestRender_UnknownDialectKeepsPage(t *testing.T) {
	page := `<html><body><div class="status-box">Ready</div><a href="/x">More</a></body></html>`
	got, err := New().Render(page, FormatText, "", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "Ready") || !strings.Contains(got, "More") {
		t.Errorf("page without known regions should render whole:\n%s", got)
	}
}

func TestRender_SelectorNoMatch(t *testing.T) {
	got, err := New().Render(statusPage, FormatText, "#nope", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "Available.") {
		t.Errorf("unmatched selector should keep the whole page:\n%s", got)
	}
}

func TestRender_Errors(t *testing.T) {
	r := New()
	if _, err := r.Render(statusPage, FormatText, "td[", ""); err == nil {
		t.Error("invalid selector accepted")
	}
	if _, err := r.Render(statusPage, "pdf", "", ""); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestCollapseSpace(t *testing.T) {
	got := collapseSpace("  SSID :\n\n   CHAOS  \t here \n")
	if got != "SSID :\nCHAOS here" {
		t.Errorf("collapseSpace = %q", got)
	}
}
