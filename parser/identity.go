package parser

import (
	"net/netip"
	"regexp"
)

const vendorPrefix = "Epson "

var (
	reDeviceName = regexp.MustCompile(`(?i)\bEPSON[0-9A-F]{6}\b`)
	reMAC        = regexp.MustCompile(`(?i)\b(?:[0-9A-F]{2}:){5}[0-9A-F]{2}\b`)
	reIPv4       = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

func modelFromTitle(p *page) (string, bool) {
	if t := flatText(p.doc.FindMatcher(selTitle).First()); t != "" {
		return vendorPrefix + t, true
	}
	return "", false
}

func modelFromHeader(p *page) (string, bool) {
	if t := flatText(findByClass(p.doc.Selection, selSpan, "header").First()); t != "" {
		return vendorPrefix + t, true
	}
	return "", false
}

// nameFromToken finds the default network name firmware assigns,
// EPSON followed by the last six MAC digits.
func nameFromToken(p *page) (string, bool) {
	m := reDeviceName.FindString(p.flatText())
	return m, m != ""
}

func macFromText(p *page) (string, bool) {
	m := reMAC.FindString(p.flatText())
	return m, m != ""
}

// ipFromText returns the first dotted quad whose octets are all in range.
func ipFromText(p *page) (string, bool) {
	for _, m := range reIPv4.FindAllString(p.flatText(), -1) {
		if addr, err := netip.ParseAddr(m); err == nil && addr.Is4() {
			return m, true
		}
	}
	return "", false
}
