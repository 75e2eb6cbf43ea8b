// Package parser extracts a normalized record from Epson firmware status
// pages. Every field is resolved by an ordered chain of independent
// strategies over one parsed document; a strategy that finds nothing, or
// fails, leaves its field empty and never affects the others.
package parser

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/printprobe/models"
)

// Parse extracts a Record from status page markup. It never panics and
// never returns an error: anything it cannot find is left empty.
func Parse(markup, source string) models.Record {
	rec := models.NewRecord(source)

	p, err := newPage(markup, source)
	if err != nil {
		slog.Debug("parser: unparsable markup", "source", source, "error", err)
		return rec
	}

	rec.Model, _ = firstOf(p, "model", modelFromTitle, modelFromHeader)

	rec.PrinterStatus, _ = firstOf(p, "printer_status",
		statusFromFieldset("PRT_STATUS"),
		statusFromInformation,
	)
	rec.ScannerStatus, _ = firstOf(p, "scanner_status", statusFromFieldset("SCN_STATUS"))

	if t, ok := firstOf(p, "tanks", readTanks); ok {
		rec.Inks = t.inks
		rec.MaintenanceBox = t.maintenance
	}

	if m, ok := firstOf(p, "network", tableByID(networkTableID)); ok {
		rec.Network = m
	}
	if m, ok := firstOf(p, "wifi_direct", tableByID(wifiDirectTableID)); ok {
		rec.WiFiDirect = m
	}

	rec.Name, _ = firstOf(p, "name",
		tableValue(rec.Network, "Device Name", "Printer Name"),
		nameFromToken,
	)
	if rec.Name == "" {
		rec.Name = rec.Model
	}
	if rec.Name == "" {
		rec.Name = models.DefaultModel
	}

	rec.MACAddress, _ = firstOf(p, "mac_address",
		tableValue(rec.Network, "MAC Address"),
		macFromText,
	)
	rec.MACAddress = strings.ToUpper(rec.MACAddress)

	rec.IPAddress, _ = firstOf(p, "ip_address",
		tableValue(rec.Network, "IP Address"),
		ipFromText,
	)

	return rec
}

// ParseBytes decodes raw as UTF-8, replacing invalid sequences with
// U+FFFD, and parses the result.
func ParseBytes(raw []byte, source string) models.Record {
	return Parse(Decode(raw), source)
}

// Decode converts device output to valid UTF-8. Some firmware emits
// locale-specific bytes in status strings.
// Each undecodable byte becomes its own U+FFFD.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw) + 8)
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}
