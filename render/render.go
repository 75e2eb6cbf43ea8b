// Package render dumps a fetched status page in a readable form, for
// looking at firmware dialects the parser does not know yet.
package render

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatText     = "text"
)

// noise is removed before any format is produced.
var noise = []string{"script", "style", "noscript", "template"}

// Renderer converts pages. The zero value is not usable; call New.
type Renderer struct {
	md *converter.Converter
}

func New() *Renderer {
	return &Renderer{md: newMarkdownConverter()}
}

// Render narrows markup to selector, strips scripts and styles, and
// converts the result to format. selector is a CSS selector or a region
// name; empty means the device regions, RegionAll the whole page. baseURL
// resolves relative links in markdown output.
func (r *Renderer) Render(markup, format, selector, baseURL string) (string, error) {
	markup, err := applySelector(markup, selector)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("render: parse page: %w", err)
	}
	doc.Find(strings.Join(noise, ", ")).Remove()

	switch format {
	case FormatMarkdown, "":
		body, err := doc.Html()
		if err != nil {
			return "", err
		}
		return toMarkdown(r.md, body, baseURL)
	case FormatHTML:
		return doc.Html()
	case FormatText:
		return collapseSpace(doc.Text()), nil
	default:
		return "", fmt.Errorf("render: unknown format %q", format)
	}
}

// collapseSpace trims every line and drops blank ones.
func collapseSpace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
