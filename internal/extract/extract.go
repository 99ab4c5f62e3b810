// Package extract locates and decodes the result fragment embedded in a raw
// remote reply. The reply protocol nests the actual result one or two levels
// deep and has been observed in several shapes: a wrapper element whose
// entity-escaped text is itself an XML fragment, the same wrapper inside an
// operation-specific response element, the fragment appearing bare anywhere in
// the body, or nothing at all. Parsing is tolerant by construction: the body
// is read as loose markup, tag names are matched by local name regardless of
// namespace prefix, and each field is read independently of its siblings.
package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoResultPayload reports that no strategy could isolate a result fragment.
var ErrNoResultPayload = errors.New("no result payload found in reply")

// wrapperName is the local name of the reply wrapper element.
const wrapperName = "return"

// fragmentNames are the local names a result fragment root may use, one per
// operation.
var fragmentNames = []string{"cotacao", "coleta"}

// Fragment is an isolated result fragment. Field values are read by tag name;
// a missing tag yields an empty value instead of aborting the parse.
type Fragment struct {
	root *goquery.Selection
}

// Result runs the fallback strategies in order against the raw reply body:
// wrapper text decoded as markup entities, then the wrapper's literal
// children, then the body itself. It never panics on malformed input.
func Result(raw string) (*Fragment, error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, ErrNoResultPayload
	}

	if wrapper := findLocal(doc.Selection, wrapperName); wrapper != nil {
		decoded := html.UnescapeString(strings.TrimSpace(wrapper.Text()))
		if frag := fragmentFromMarkup(decoded); frag != nil {
			return frag, nil
		}
		// Some call sites return the fragment as real child elements of the
		// wrapper instead of escaped text.
		if frag := fragmentIn(wrapper); frag != nil {
			return frag, nil
		}
	}

	if frag := fragmentIn(doc.Selection); frag != nil {
		return frag, nil
	}
	return nil, ErrNoResultPayload
}

// Field returns the trimmed text of the first descendant whose local name
// matches any of names, in order. Missing tags yield "".
func (f *Fragment) Field(names ...string) string {
	for _, name := range names {
		if sel := findLocal(f.root, name); sel != nil {
			return strings.TrimSpace(sel.Text())
		}
	}
	return ""
}

// Preview returns a whitespace-compacted prefix of a raw reply body, bounded
// to maxLen characters, for diagnostics.
func Preview(raw string, maxLen int) string {
	clean := strings.Join(strings.Fields(strings.TrimSpace(raw)), " ")
	if len(clean) <= maxLen {
		return clean
	}
	return clean[:maxLen] + "..."
}

func parse(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

func fragmentFromMarkup(markup string) *Fragment {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	doc, err := parse(markup)
	if err != nil {
		return nil
	}
	return fragmentIn(doc.Selection)
}

func fragmentIn(sel *goquery.Selection) *Fragment {
	for _, name := range fragmentNames {
		if root := findLocal(sel, name); root != nil {
			return &Fragment{root: root}
		}
	}
	return nil
}

// findLocal returns the first descendant element whose tag name, with any
// namespace prefix stripped, equals name. The underlying parser lowercases
// tag names, so matching is case-insensitive by construction.
func findLocal(sel *goquery.Selection, name string) *goquery.Selection {
	name = strings.ToLower(name)
	var found *goquery.Selection
	sel.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if localName(goquery.NodeName(s)) == name {
			found = s
			return false
		}
		return true
	})
	return found
}

func localName(tag string) string {
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
