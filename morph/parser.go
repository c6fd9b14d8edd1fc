package morph

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"go.alpaca.dev/morph/dom"
	"go.alpaca.dev/morph/resourcemap"
)

// Selectors are compiled once at package init, not re-parsed on every
// Parse call — see dom.Document.SelectCompiled.
var (
	selObjects = cascadia.MustCompile("img, link, script")
	selStyle   = cascadia.MustCompile("style")
	selLink    = cascadia.MustCompile("link")
)

// ParseObjects walks document in order (every img/link/script, then
// every style element's inline url(...) references), classifies each
// reference, resolves its bytes via store, and returns them sorted by
// content length descending (larger first). That ordering decides which
// objects InlineObjects absorbs (it takes a prefix of the list) and which
// objects probabilistic morphing hands the largest sampled sizes first;
// see engine.go.
func ParseObjects(document *dom.Document, store resourcemap.Store) []Object {
	var objects []Object
	foundFavicon := false

	for _, node := range document.SelectCompiled(selObjects) {
		kind, ok := classifyElement(node, &foundFavicon)
		if !ok {
			continue
		}
		path, ok := referencePath(node)
		if !ok {
			continue
		}

		key := resourceKey(path)
		content, _ := store.Get(key)
		log.Debugw("found object", "uri", path, "kind", kind, "size", len(content))
		objects = append(objects, NewExisting(content, kind, path, node))
	}

	for _, styleNode := range document.SelectCompiled(selStyle) {
		text := dom.TextContent(styleNode)
		for _, path := range parseCSSImages(text) {
			key := resourceKey(path)
			content, _ := store.Get(key)
			log.Debugw("found object", "uri", path, "kind", KindCssImg, "size", len(content))
			objects = append(objects, NewExisting(content, KindCssImg, path, styleNode))
		}
	}

	if !foundFavicon {
		insertEmptyFavicon(document)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return len(objects[i].Content) > len(objects[j].Content)
	})
	return objects
}

// ParseObjectNames returns the "/uri" keys referenced from an HTML
// document, without resolving any bytes — used by the host to pre-fetch
// sub-resources before the first morph call (GetHTMLRequiredFiles).
func ParseObjectNames(document *dom.Document) []string {
	var names []string
	foundFavicon := false

	for _, node := range document.SelectCompiled(selObjects) {
		if _, ok := classifyElement(node, &foundFavicon); !ok {
			continue
		}
		if path, ok := referencePath(node); ok {
			names = append(names, resourceKey(path))
		}
	}

	for _, styleNode := range document.SelectCompiled(selStyle) {
		text := dom.TextContent(styleNode)
		for _, path := range parseCSSImages(text) {
			names = append(names, resourceKey(path))
		}
	}

	if !foundFavicon {
		insertEmptyFavicon(document)
	}
	return names
}

// ParseCSSNames returns the "/uri" keys referenced from <link> elements
// only — used by GetRequiredCSSFiles.
func ParseCSSNames(document *dom.Document) []string {
	var names []string
	foundFavicon := false

	for _, node := range document.SelectCompiled(selLink) {
		path, ok := referencePath(node)
		if !ok {
			continue
		}
		names = append(names, resourceKey(path))

		rel, _ := dom.GetAttribute(node, "rel")
		switch strings.ToLower(rel) {
		case "shortcut icon", "icon":
			foundFavicon = true
		}
	}

	if !foundFavicon {
		insertEmptyFavicon(document)
	}
	return names
}

// classifyElement determines the ObjectKind of an img/link/script node.
// ok is false for elements the parser skips entirely (e.g. a <link> with
// an unrecognized rel). Sets *foundFavicon when a favicon link is seen.
func classifyElement(node *html.Node, foundFavicon *bool) (ObjectKind, bool) {
	name := dom.TagName(node)
	rel, _ := dom.GetAttribute(node, "rel")
	rel = strings.ToLower(rel)

	switch name {
	case "link":
		switch rel {
		case "stylesheet":
			return KindCSS, true
		case "shortcut icon", "icon":
			*foundFavicon = true
			return KindIMG, true
		default:
			return KindUnknown, false
		}
	case "script":
		return KindJS, true
	case "img":
		return KindIMG, true
	default:
		return KindUnknown, false
	}
}

// referencePath extracts the path attribute (href for link, src
// otherwise), skipping elements with no/empty/data: references.
func referencePath(node *html.Node) (string, bool) {
	attr := "src"
	if dom.TagName(node) == "link" {
		attr = "href"
	}
	path, ok := dom.GetAttribute(node, attr)
	if !ok || path == "" || strings.HasPrefix(path, "data:") {
		return "", false
	}
	return path, true
}

// resourceKey strips an existing query string and prepends "/" to form
// the resource-map lookup key.
func resourceKey(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return "/" + path
}

// parseCSSImages extracts url(...) references from inline CSS text, one
// per line containing the "url" keyword — this mirrors the original
// implementation's single-url-per-line scan (an Open Question the spec
// says to preserve rather than "fix": multi-url lines are not handled).
func parseCSSImages(cssText string) []string {
	if !strings.Contains(cssText, "url") {
		return nil
	}

	var paths []string
	for _, line := range strings.Split(cssText, "\n") {
		stripped := removeWhitespace(line)
		if !strings.Contains(stripped, "url") {
			continue
		}
		stripped = strings.ReplaceAll(stripped, "'", "\"")

		parts := strings.SplitN(stripped, "url", 2)
		if len(parts) != 2 {
			continue
		}
		token := parts[1]
		if strings.Contains(token, "*/") {
			continue
		}
		if end := strings.IndexByte(token, ')'); end >= 0 {
			token = token[:end]
		}
		token = strings.NewReplacer(
			"\"", "", "(", "", ")", "", ";", "",
		).Replace(token)
		paths = append(paths, token)
	}
	return paths
}

func removeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertEmptyFavicon appends <link rel="shortcut icon" href="data:,">
// to <head> (or the document root if there is no <head>).
func insertEmptyFavicon(document *dom.Document) {
	el := dom.CreateElement("link")
	dom.SetAttribute(el, "href", "data:,")
	dom.SetAttribute(el, "rel", "shortcut icon")
	dom.Append(dom.HeadOrRoot(document), el)
}

// keepLocalObjects drops any object whose URI is an absolute,
// cross-origin reference ("http://" or "https://") — the engine only
// morphs same-origin resources it can pad. Mirrors libalpaca's
// utils::keep_local_objects.
func keepLocalObjects(objects []Object) []Object {
	kept := objects[:0]
	for _, o := range objects {
		if strings.Contains(o.URI, "http:") || strings.Contains(o.URI, "https:") {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}
