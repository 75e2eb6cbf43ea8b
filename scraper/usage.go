package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/use-agent/printprobe/models"
)

// labelGap skips what firmware puts between a label and its value:
// whitespace, entities, colons and markup.
const labelGap = `(?:\s|&nbsp;|&#160;|:|<[^>]*>)*`

const (
	bwLabel    = `(?:B\s*&(?:amp;)?\s*W|Black\s*(?:&(?:amp;)?|and)\s*White|Monochrome|Mono)`
	colorLabel = `Colou?r`
	count      = `(\d[\d,.]*)`
)

type usagePattern struct {
	field  string
	re     *regexp.Regexp
	number bool
}

var usagePatterns = []usagePattern{
	{"total_pages", regexp.MustCompile(`(?i)Total\s+Number\s+of\s+Pages` + labelGap + count), true},
	{"bw_pages", regexp.MustCompile(`(?i)` + bwLabel + `\s+Pages` + labelGap + count), true},
	{"color_pages", regexp.MustCompile(`(?i)` + colorLabel + `\s+Pages` + labelGap + count), true},
	{"bw_scans", regexp.MustCompile(`(?i)` + bwLabel + `\s+Scans?` + labelGap + count), true},
	{"color_scans", regexp.MustCompile(`(?i)` + colorLabel + `\s+Scans?` + labelGap + count), true},
	{"first_print_date", regexp.MustCompile(`(?i)First\s+Print(?:ing)?\s+Date` + labelGap + `(\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4})`), false},
}

// ParseUsage extracts usage counters from raw page markup. Counters are
// returned without thousands separators.
func ParseUsage(markup string) models.UsageCounters {
	var u models.UsageCounters
	for _, p := range usagePatterns {
		m := p.re.FindStringSubmatch(markup)
		if m == nil {
			continue
		}
		v := m[1]
		if p.number {
			v = strings.NewReplacer(",", "", ".", "").Replace(v)
		}
		u.Set(p.field, v)
	}
	return u
}

// FetchUsage probes the configured usage pages in order and returns the
// counters of the first page that yields any. Unreachable pages are
// skipped silently; an empty result means nothing was found.
func (f *Fetcher) FetchUsage(ctx context.Context, host string) models.UsageCounters {
	for _, path := range f.usagePaths {
		if ctx.Err() != nil {
			break
		}
		body, err := f.Fetch(ctx, host, path)
		if err != nil {
			slog.Debug("scraper: usage page unavailable", "host", host, "path", path, "error", err)
			continue
		}
		u := ParseUsage(body)
		if !u.Empty() {
			u.Source = path
			return u
		}
	}
	return models.UsageCounters{}
}
