package models

// DefaultModel is the display label used when no model could be detected.
const DefaultModel = "WorkForce Printer"

// Record is the normalized result of parsing one device status page.
// Empty strings and nil pointers mean the field was not found.
type Record struct {
	Model         string `json:"model,omitempty"`
	Name          string `json:"name,omitempty"`
	PrinterStatus string `json:"printer_status,omitempty"`
	ScannerStatus string `json:"scanner_status,omitempty"`
	MACAddress    string `json:"mac_address,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`

	// Inks maps channel codes (BK, C, M, Y, PB, LC, LM, GY) to a 0-100 percent.
	Inks map[string]int `json:"inks"`

	// MaintenanceBox is the waste tank fill level, 0-100.
	MaintenanceBox *int `json:"maintenance_box,omitempty"`

	Network    map[string]string `json:"network"`
	WiFiDirect map[string]string `json:"wifi_direct,omitempty"`

	// Source echoes the caller-supplied label.
	Source string `json:"source"`
}

// NewRecord returns an empty record with all maps allocated.
func NewRecord(source string) Record {
	return Record{
		Inks:       make(map[string]int),
		Network:    make(map[string]string),
		WiFiDirect: make(map[string]string),
		Source:     source,
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Inks = make(map[string]int, len(r.Inks))
	for k, v := range r.Inks {
		out.Inks[k] = v
	}
	out.Network = cloneStrings(r.Network)
	out.WiFiDirect = cloneStrings(r.WiFiDirect)
	if r.MaintenanceBox != nil {
		v := *r.MaintenanceBox
		out.MaintenanceBox = &v
	}
	return out
}

func cloneStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
