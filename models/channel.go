package models

import "strings"

// channelNames maps colour names, lowercased with separators removed, to
// the channel codes used as Record.Inks keys.
var channelNames = map[string]string{
	"black":        "BK",
	"photoblack":   "PB",
	"matteblack":   "MB",
	"cyan":         "C",
	"magenta":      "M",
	"yellow":       "Y",
	"lightcyan":    "LC",
	"lightmagenta": "LM",
	"gray":         "GY",
	"grey":         "GY",
}

// ChannelCode normalizes a tank label or sensor name ("Light Cyan", "bk",
// "photo-black") to an uppercase channel code of one or two letters.
func ChannelCode(label string) (string, bool) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '-', '_':
			return -1
		}
		return r
	}, label)
	if code, ok := channelNames[strings.ToLower(compact)]; ok {
		return code, true
	}
	code := strings.ToUpper(compact)
	if len(code) < 1 || len(code) > 2 {
		return "", false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return code, true
}
