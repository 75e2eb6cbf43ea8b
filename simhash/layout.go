package simhash

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const shingleSize = 3

// Layout fingerprints the element structure of a page: tag names with
// their id and class tokens, in document order. Text and all other
// attributes are ignored, so level bars and status text changing between
// polls leave the fingerprint untouched.
func Layout(markup string) uint64 {
	tokens := layoutTokens(markup)
	if len(tokens) == 0 {
		return 0
	}
	if shingles := makeShingles(tokens, shingleSize); len(shingles) > 0 {
		return Sum(shingles)
	}
	return Sum(tokens)
}

// layoutTokens walks markup with the tokenizer and emits one token per
// opening tag, like "li.tank" or "fieldset#PRT_STATUS".
func layoutTokens(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var tokens []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tokens
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tok := string(name)
			var id string
			var classes []string
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				switch string(k) {
				case "id":
					id = string(v)
				case "class":
					classes = strings.Fields(strings.ToLower(string(v)))
				}
			}
			if id != "" {
				tok += "#" + id
			}
			if len(classes) > 0 {
				sort.Strings(classes)
				tok += "." + strings.Join(classes, ".")
			}
			tokens = append(tokens, tok)
		}
	}
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
