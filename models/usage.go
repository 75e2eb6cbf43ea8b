package models

// UsageCounters holds best-effort counters scraped from auxiliary
// device pages. Values are kept as the device printed them, minus
// thousands separators.
type UsageCounters struct {
	TotalPages     string `json:"total_pages,omitempty"`
	BWPages        string `json:"bw_pages,omitempty"`
	ColorPages     string `json:"color_pages,omitempty"`
	BWScans        string `json:"bw_scans,omitempty"`
	ColorScans     string `json:"color_scans,omitempty"`
	FirstPrintDate string `json:"first_print_date,omitempty"`

	// Source is the path of the page the counters came from.
	Source string `json:"source,omitempty"`
}

// UsageFields lists the counter names accepted by UsageCounters.Field.
var UsageFields = []string{
	"total_pages", "bw_pages", "color_pages", "bw_scans", "color_scans", "first_print_date",
}

// Field returns the counter with the given JSON name.
func (u UsageCounters) Field(name string) (string, bool) {
	var v string
	switch name {
	case "total_pages":
		v = u.TotalPages
	case "bw_pages":
		v = u.BWPages
	case "color_pages":
		v = u.ColorPages
	case "bw_scans":
		v = u.BWScans
	case "color_scans":
		v = u.ColorScans
	case "first_print_date":
		v = u.FirstPrintDate
	}
	return v, v != ""
}

// Set assigns the counter with the given JSON name. Unknown names are ignored.
func (u *UsageCounters) Set(name, value string) {
	switch name {
	case "total_pages":
		u.TotalPages = value
	case "bw_pages":
		u.BWPages = value
	case "color_pages":
		u.ColorPages = value
	case "bw_scans":
		u.BWScans = value
	case "color_scans":
		u.ColorScans = value
	case "first_print_date":
		u.FirstPrintDate = value
	}
}

// Empty reports whether no counter was found.
func (u UsageCounters) Empty() bool {
	for _, f := range UsageFields {
		if _, ok := u.Field(f); ok {
			return false
		}
	}
	return true
}
