package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// page is the parsed document shared by all strategies of one Parse call.
type page struct {
	doc    *goquery.Document
	source string

	text    string
	textSet bool
}

func newPage(markup, source string) (*page, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &page{doc: goquery.NewDocumentFromNode(root), source: source}, nil
}

// flatText returns the flattened text of the whole document.
func (p *page) flatText() string {
	if !p.textSet {
		p.text = flatText(p.doc.Selection)
		p.textSet = true
	}
	return p.text
}

// strategy is one attempt at extracting a value from a page.
// It reports false when its structure is not present.
type strategy[T any] = func(p *page) (T, bool)

// firstOf runs the strategies in order and returns the first hit.
func firstOf[T any](p *page, field string, chain ...strategy[T]) (T, bool) {
	for i, s := range chain {
		if v, ok := attempt(p, field, i, s); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// attempt runs a single strategy. A panic inside it is logged and counted
// as a miss so the remaining fields are still extracted.
func attempt[T any](p *page, field string, idx int, s strategy[T]) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("parser: strategy failed",
				"field", field,
				"strategy", idx,
				"source", p.source,
				"panic", r,
			)
			var zero T
			v, ok = zero, false
		}
	}()
	return s(p)
}
