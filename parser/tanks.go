package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/printprobe/models"
)

var (
	// reStyleHeight matches a height declaration, not line-height or max-height.
	reStyleHeight = regexp.MustCompile(`(?i)(?:^|[^-\w])height\s*:\s*(\d+)`)
	reGradient    = regexp.MustCompile(`(?i)linear-gradient\s*\(`)
	rePercent     = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*%`)
)

// tankLevels collects the consumable readings of one page.
type tankLevels struct {
	inks        map[string]int
	maintenance *int
}

// tank is one li.tank entry. Exactly one of code and maintenance is set.
type tank struct {
	code        string
	maintenance bool
	percent     int
}

// readTanks walks every li.tank. A tank that fails to decode is skipped
// without affecting its siblings. A channel listed twice keeps the last value.
func readTanks(p *page) (tankLevels, bool) {
	out := tankLevels{inks: make(map[string]int)}
	findByClass(p.doc.Selection, selLi, "tank").Each(func(i int, li *goquery.Selection) {
		t, ok := attempt(p, "tank", i, func(*page) (tank, bool) { return readTank(li) })
		if !ok {
			return
		}
		if t.maintenance {
			v := t.percent
			out.maintenance = &v
			return
		}
		out.inks[t.code] = t.percent
	})
	return out, true
}

func readTank(li *goquery.Selection) (tank, bool) {
	var t tank
	if findByClass(li, selDiv, "mbicn").Length() > 0 {
		t.maintenance = true
	} else {
		var label string
		findByClass(li, selDiv, "clrname").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			label = flatText(s)
			return label == ""
		})
		code, ok := models.ChannelCode(label)
		if !ok {
			return t, false
		}
		t.code = code
	}

	if h, ok := barHeight(li); ok {
		t.percent = clampPercent(min(h, 50) * 2)
		return t, true
	}
	if pct, ok := gradientPercent(li); ok {
		t.percent = clampPercent(pct)
		return t, true
	}
	return t, false
}

// barHeight reads the pixel height of the fill inside the div.tank bar.
// Bars are drawn 0-50px tall.
func barHeight(li *goquery.Selection) (int, bool) {
	bar := findByClass(li, selDiv, "tank").First()
	if bar.Length() == 0 {
		return 0, false
	}

	fill := findByClass(bar, selImg, "color").First()
	if fill.Length() == 0 {
		fill = bar.FindMatcher(selImg).First()
	}
	if fill.Length() == 0 {
		fill = bar.Children().First()
	}
	if fill.Length() > 0 {
		if h, ok := heightAttr(fill.AttrOr("height", "")); ok {
			return h, true
		}
		if h, ok := styleHeight(fill.AttrOr("style", "")); ok {
			return h, true
		}
	}

	var (
		h     int
		found bool
	)
	bar.FindMatcher(selStyled).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		h, found = styleHeight(s.AttrOr("style", ""))
		return !found
	})
	return h, found
}

// heightAttr accepts a bare non-negative integer, without units.
func heightAttr(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func styleHeight(style string) (int, bool) {
	m := reStyleHeight.FindStringSubmatch(style)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// gradientPercent decodes the gradient skin: the fill ends at the second
// percentage stop of the first linear-gradient found on the tank or its
// descendants.
func gradientPercent(li *goquery.Selection) (int, bool) {
	var (
		pct   int
		found bool
	)
	li.AddSelection(li.FindMatcher(selStyled)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		pct, found = gradientStop(s.AttrOr("style", ""))
		return !found
	})
	return pct, found
}

func gradientStop(style string) (int, bool) {
	loc := reGradient.FindStringIndex(style)
	if loc == nil {
		return 0, false
	}
	stops := rePercent.FindAllStringSubmatch(style[loc[1]:], 2)
	if len(stops) < 2 {
		return 0, false
	}
	f, err := strconv.ParseFloat(stops[1][1], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Round(f)
	if f > 100 {
		return 100, true
	}
	if f < 0 {
		return 0, true
	}
	return int(f), true
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
