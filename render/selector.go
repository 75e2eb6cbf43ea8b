package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Named regions of a status page, accepted wherever a selector is.
const (
	RegionAll        = "all"
	RegionDevice     = "device"
	RegionStatus     = "status"
	RegionTanks      = "tanks"
	RegionNetwork    = "network"
	RegionWiFiDirect = "wifi_direct"
)

// regionOrder is the order RegionDevice lists its parts in.
var regionOrder = []string{RegionStatus, RegionTanks, RegionNetwork, RegionWiFiDirect}

var regions = map[string]string{
	RegionStatus:     "fieldset#PRT_STATUS, div.information",
	RegionTanks:      "li.tank",
	RegionNetwork:    "#info-network",
	RegionWiFiDirect: "#info-wfd",
}

// resolveSelector maps a region name to CSS. Anything that is not a
// region name is returned as is. An empty selector means RegionDevice.
func resolveSelector(selector string) string {
	selector = strings.TrimSpace(selector)
	switch selector {
	case "", RegionDevice:
		parts := make([]string, len(regionOrder))
		for i, name := range regionOrder {
			parts[i] = regions[name]
		}
		return strings.Join(parts, ", ")
	case RegionAll:
		return ""
	}
	if css, ok := regions[selector]; ok {
		return css
	}
	return selector
}

// applySelector returns the outer HTML of the outermost elements matching
// selector, in document order. When nothing matches, as on a firmware
// dialect with none of the known regions, the whole page is returned.
func applySelector(rawHTML, selector string) (string, error) {
	css := resolveSelector(selector)
	if css == "" {
		return rawHTML, nil
	}
	sel, err := cascadia.ParseGroup(css)
	if err != nil {
		return "", fmt.Errorf("render: invalid selector %q: %w", selector, err)
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	matches := outermost(cascadia.QueryAll(doc, sel))
	if len(matches) == 0 {
		return rawHTML, nil
	}

	var buf bytes.Buffer
	for _, node := range matches {
		if err := html.Render(&buf, node); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// outermost drops nodes nested inside another match, so a region that
// contains another is rendered once.
func outermost(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		seen[n] = true
	}
	out := nodes[:0]
	for _, n := range nodes {
		nested := false
		for p := n.Parent; p != nil; p = p.Parent {
			if seen[p] {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}
