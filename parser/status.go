package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxStatusLength is the longest status, in runes, that still gets its
// trailing period removed. Longer text is treated as a sentence.
const maxStatusLength = 40

var reStatusLabel = regexp.MustCompile(`(?i)^(?:printer|scanner)\s+status\s*[:\-]?\s*`)

// statusFromFieldset reads the status list inside fieldset#id.
func statusFromFieldset(id string) strategy[string] {
	return func(p *page) (string, bool) {
		fs := p.doc.FindMatcher(selFieldset).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasID(s.Get(0), id)
		}).First()
		if fs.Length() == 0 {
			return "", false
		}
		text := flatText(fs.FindMatcher(selList))
		if text == "" {
			text = flatText(fs)
		}
		return cleanStatus(text)
	}
}

// statusFromInformation reads div.information, preferring the span of a
// p.clearfix row over the first span.
func statusFromInformation(p *page) (string, bool) {
	info := findByClass(p.doc.Selection, selDiv, "information").First()
	if info.Length() == 0 {
		return "", false
	}
	span := findByClass(info, selP, "clearfix").FindMatcher(selSpan).First()
	if span.Length() == 0 {
		span = info.FindMatcher(selSpan).First()
	}
	if span.Length() == 0 {
		return "", false
	}
	return cleanStatus(flatText(span))
}

// cleanStatus strips a repeated "Printer Status:" label and, for short
// texts, one trailing period. Blank input is absent.
func cleanStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(reStatusLabel.ReplaceAllString(s, ""))
	if utf8.RuneCountInString(s) <= maxStatusLength &&
		strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "..") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "."))
	}
	return s, s != ""
}
