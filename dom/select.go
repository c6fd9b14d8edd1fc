package dom

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Select walks the document in tree order and returns every element node
// matching the given CSS selector. It wraps the Document's existing
// *html.Node tree in a goquery.Document so no re-parse happens — mutations
// made afterwards (detach, attribute writes) operate on the same nodes.
func (d *Document) Select(selector string) ([]*html.Node, error) {
	gq := goquery.NewDocumentFromNode(d.Root)
	sel := gq.Find(selector)
	return sel.Nodes, nil
}

// SelectOne returns the first element matching selector, or nil.
func (d *Document) SelectOne(selector string) *html.Node {
	nodes, err := d.Select(selector)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// SelectCompiled runs a pre-parsed cascadia selector (anything
// implementing goquery.Matcher) against the document. Hot-path walks
// that run once per request — the Parser's fixed "img, link, script"
// and "style" walks — compile their selector once at package init via
// cascadia.MustCompile instead of re-parsing the selector string on
// every call.
func (d *Document) SelectCompiled(m goquery.Matcher) []*html.Node {
	gq := goquery.NewDocumentFromNode(d.Root)
	return gq.FindMatcher(m).Nodes
}
