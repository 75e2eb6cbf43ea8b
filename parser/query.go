package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	selTitle    = cascadia.MustCompile("title")
	selSpan     = cascadia.MustCompile("span")
	selList     = cascadia.MustCompile("ul, ol")
	selFieldset = cascadia.MustCompile("fieldset")
	selDiv      = cascadia.MustCompile("div")
	selLi       = cascadia.MustCompile("li")
	selImg      = cascadia.MustCompile("img")
	selRow      = cascadia.MustCompile("tr")
	selCell     = cascadia.MustCompile("td")
	selP        = cascadia.MustCompile("p")
	selStyled   = cascadia.MustCompile("[style]")
)

// Predicates over single nodes. The matching rules are:
//   - class token: whitespace-separated class list contains the token,
//     compared case-insensitively
//   - class substring: the raw class attribute contains the fragment
//   - id: exact, case-sensitive equality

func hasClassToken(n *html.Node, token string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if strings.EqualFold(c, token) {
			return true
		}
	}
	return false
}

func classContains(n *html.Node, fragment string) bool {
	return strings.Contains(strings.ToLower(attr(n, "class")), strings.ToLower(fragment))
}

func hasID(n *html.Node, id string) bool {
	v, ok := lookupAttr(n, "id")
	return ok && v == id
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Selection helpers built on the predicates.

func withClass(token string) func(int, *goquery.Selection) bool {
	return func(_ int, s *goquery.Selection) bool {
		return hasClassToken(s.Get(0), token)
	}
}

func withClassFragment(fragment string) func(int, *goquery.Selection) bool {
	return func(_ int, s *goquery.Selection) bool {
		return classContains(s.Get(0), fragment)
	}
}

// findByClass returns descendants of s matching m that carry the class token.
func findByClass(s *goquery.Selection, m goquery.Matcher, token string) *goquery.Selection {
	return s.FindMatcher(m).FilterFunction(withClass(token))
}

// findByID returns the first element anywhere under s with the given id.
func findByID(s *goquery.Selection, id string) *goquery.Selection {
	return s.Find("[id]").FilterFunction(func(_ int, e *goquery.Selection) bool {
		return hasID(e.Get(0), id)
	}).First()
}

// flatText joins the trimmed, non-empty text nodes under the selection with
// single spaces. Script and style content is ignored.
func flatText(s *goquery.Selection) string {
	var parts []string
	for _, n := range s.Nodes {
		parts = collectText(n, parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts []string) []string {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			parts = append(parts, t)
		}
		return parts
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return parts
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = collectText(c, parts)
	}
	return parts
}
