package scraper

import (
	"testing"

	"github.com/use-agent/printprobe/models"
)

func TestParseUsage(t *testing.T) {
	markup := `<html><body>
<table>
<tr><td class="item-key">Total Number of Pages&nbsp;:</td><td class="item-value">4,812</td></tr>
<tr><td class="item-key">Total Number of B&amp;W Pages :</td><td class="item-value">3,100</td></tr>
<tr><td class="item-key">Total Number of Color Pages :</td><td class="item-value">1,712</td></tr>
<tr><td class="item-key">B&amp;W Scans</td><td class="item-value"><span>250</span></td></tr>
<tr><td class="item-key">Color Scans</td><td class="item-value">98</td></tr>
<tr><td class="item-key">First Printing Date :</td><td class="item-value">2019-04-27</td></tr>
</table>
</body></html>`

	got := ParseUsage(markup)
	want := models.UsageCounters{
		TotalPages:     "4812",
		BWPages:        "3100",
		ColorPages:     "1712",
		BWScans:        "250",
		ColorScans:     "98",
		FirstPrintDate: "2019-04-27",
	}
	if got != want {
		t.Errorf("ParseUsage =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseUsage_Variants(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		field  string
		want   string
	}{
		{"black and white", "Black and White Pages: 1.204", "bw_pages", "1204"},
		{"monochrome scan", "Monochrome Scan 7", "bw_scans", "7"},
		{"colour spelling", "Colour Pages 55", "color_pages", "55"},
		{"first print date slashes", "First Print Date: 04/27/2019", "first_print_date", "04/27/2019"},
		{"no value", "Total Number of Pages: -", "total_pages", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ParseUsage(tt.markup).Field(tt.field)
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestParseUsage_Empty(t *testing.T) {
	if u := ParseUsage("<html><body>Available.</body></html>"); !u.Empty() {
		t.Errorf("expected empty counters, got %+v", u)
	}
}
