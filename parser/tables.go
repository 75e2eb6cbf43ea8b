package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	networkTableID    = "info-network"
	wifiDirectTableID = "info-wfd"
)

// tableByID reads the key/value rows under the element with the given id.
// Rows need a td.item-key and a td.item-value cell (class substring match).
func tableByID(id string) strategy[map[string]string] {
	return func(p *page) (map[string]string, bool) {
		root := findByID(p.doc.Selection, id)
		if root.Length() == 0 {
			return nil, false
		}
		out := make(map[string]string)
		root.FindMatcher(selRow).Each(func(_ int, tr *goquery.Selection) {
			cells := tr.FindMatcher(selCell)
			k := cells.FilterFunction(withClassFragment("item-key")).First()
			v := cells.FilterFunction(withClassFragment("item-value")).First()
			if k.Length() == 0 || v.Length() == 0 {
				return
			}
			key := cleanKey(flatText(k))
			if key == "" {
				return
			}
			out[key] = cleanValue(flatText(v))
		})
		return out, true
	}
}

// cleanKey drops the no-break space or plain space the firmware puts
// between a label and its colon, then any trailing colon.
func cleanKey(s string) string {
	s = strings.ReplaceAll(s, "\u00a0:", "")
	s = strings.ReplaceAll(s, " :", ":")
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ":") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ":"))
	}
	return s
}

func cleanValue(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// tableValue looks up the first non-empty value among keys in an already
// parsed table.
func tableValue(table map[string]string, keys ...string) strategy[string] {
	return func(*page) (string, bool) {
		for _, k := range keys {
			if v := strings.TrimSpace(table[k]); v != "" {
				return v, true
			}
		}
		return "", false
	}
}
