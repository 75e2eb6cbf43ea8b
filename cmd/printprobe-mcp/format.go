package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/use-agent/printprobe/models"
)

// channelOrder lists ink codes in the order printers show them.
var channelOrder = []string{"BK", "PB", "MB", "GY", "C", "M", "Y", "LC", "LM"}

func formatDevice(d models.DeviceStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", d.ID, d.Model)
	fmt.Fprintf(&sb, "Host: %s\n", d.Host)
	if !d.Available {
		sb.WriteString("Available: no\n")
		if d.LastError != nil {
			fmt.Fprintf(&sb, "Error: [%s] %s\n", d.LastError.Code, d.LastError.Message)
		}
		return sb.String()
	}

	sb.WriteString("Available: yes\n")
	fmt.Fprintf(&sb, "Printer status: %s\n", d.PrinterStatus)
	if d.Record == nil {
		return sb.String()
	}
	r := d.Record
	if r.ScannerStatus != "" {
		fmt.Fprintf(&sb, "Scanner status: %s\n", r.ScannerStatus)
	}
	if len(r.Inks) > 0 {
		sb.WriteString("\nInk levels:\n")
		for _, code := range orderedChannels(r.Inks) {
			fmt.Fprintf(&sb, "  %-3s %3d%%\n", code, r.Inks[code])
		}
	}
	if r.MaintenanceBox != nil {
		fmt.Fprintf(&sb, "Maintenance box: %d%%\n", *r.MaintenanceBox)
	}
	if len(r.Network) > 0 {
		sb.WriteString("\nNetwork:\n")
		for _, k := range sortedKeys(r.Network) {
			fmt.Fprintf(&sb, "  %s: %s\n", k, r.Network[k])
		}
	}
	if d.Usage != nil && d.Usage.TotalPages != "" {
		fmt.Fprintf(&sb, "\nTotal pages: %s\n", d.Usage.TotalPages)
	}
	return sb.String()
}

func formatReading(r models.SensorReading) string {
	label := r.Name
	if label == "" {
		label = r.Key
	}
	return fmt.Sprintf("%s: %v%s", label, r.Value, r.Unit)
}

func orderedChannels(inks map[string]int) []string {
	var out []string
	for _, code := range channelOrder {
		if _, ok := inks[code]; ok {
			out = append(out, code)
		}
	}
	var rest []string
	for code := range inks {
		known := false
		for _, c := range channelOrder {
			if c == code {
				known = true
				break
			}
		}
		if !known {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
