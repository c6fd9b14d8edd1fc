package morph

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"go.alpaca.dev/morph/dom"
	"go.alpaca.dev/morph/resourcemap"
)

// imageDataURI renders content as a data: URI for inlining, using the
// same three-format detection as the Padder (mirrors libalpaca's
// utils::get_img_format_and_ext).
func imageDataURI(content []byte) (string, error) {
	var ext string
	switch DetectImageFormat(content) {
	case ImageJPEG:
		ext = "jpeg"
	case ImagePNG:
		ext = "png"
	case ImageGIF:
		ext = "gif"
	default:
		return "", fmt.Errorf("%w: unrecognized image format for inlining", ErrBadInput)
	}
	encoded := base64.StdEncoding.EncodeToString(content)
	return fmt.Sprintf("data:image/%s;charset=utf-8;base64,%s", ext, encoded), nil
}

// attrForKind returns which attribute (or, for CSS-img references, the
// style element's text content) carries an object's reference.
func attrForKind(node *html.Node) string {
	switch dom.TagName(node) {
	case "img", "script":
		return "src"
	case "link":
		return "href"
	default:
		return "style"
	}
}

// InlineObjects folds the first n objects (by position in objects,
// which ParseObjects sorts largest first) directly into the document:
// stylesheet content replaces
// its <link> with an inline <style>, and image bytes become a data: URI
// in the referencing attribute or CSS text. It returns the remaining
// objects with the inlined ones removed, mirroring libalpaca's
// inlining::make_objects_inlined.
func InlineObjects(document *dom.Document, objects []Object, n int) ([]Object, error) {
	if n > len(objects) {
		n = len(objects)
	}
	toInline := objects[:n]
	rest := append([]Object(nil), objects[n:]...)

	for _, obj := range toInline {
		if obj.Node == nil {
			continue
		}

		if obj.Kind == KindCSS {
			if err := inlineStylesheet(document, obj); err != nil {
				return nil, err
			}
			continue
		}

		dataURI, err := imageDataURI(obj.Content)
		if err != nil {
			return nil, err
		}

		attr := attrForKind(obj.Node)
		if attr == "style" {
			replaceInStyleText(obj.Node, obj.URI, dataURI)
		} else {
			dom.SetAttribute(obj.Node, attr, dataURI)
		}
	}

	return rest, nil
}

// inlineStylesheet replaces a <link rel=stylesheet> element with an
// equivalent inline <style> element carrying the fetched CSS text.
func inlineStylesheet(document *dom.Document, obj Object) error {
	style := dom.CreateElement("style")
	dom.Append(style, dom.CreateTextNode(string(obj.Content)))
	dom.ReplaceWith(obj.Node, style)
	return nil
}

// replaceInStyleText substitutes the first occurrence of uri inside a
// <style> element's text content with replacement, used when an
// object's reference lives inside a CSS url(...) rather than an
// element attribute.
func replaceInStyleText(styleNode *html.Node, uri, replacement string) {
	text := dom.TextContent(styleNode)
	dom.SetTextContent(styleNode, strings.Replace(text, uri, replacement, 1))
}

// InlineAllCSS unconditionally collapses every non-favicon <link> in
// document into an inline <style> element — regardless of its rel
// attribute, or the absence of one — and every CSS-referenced image
// into a data: URI, repeating until no collapsible links remain.
// Mirrors libalpaca's parse::parse_css_and_inline, which skips a <link>
// only for an empty, data:, or favicon.ico href and never inspects rel.
func InlineAllCSS(document *dom.Document, store resourcemap.Store) error {
	for {
		links := document.SelectCompiled(selLink)
		var toCollapse []*html.Node
		for _, link := range links {
			href, ok := dom.GetAttribute(link, "href")
			if !ok || href == "" || strings.HasPrefix(href, "data:") || strings.Contains(href, "favicon.ico") {
				continue
			}
			toCollapse = append(toCollapse, link)
		}
		if len(toCollapse) == 0 {
			break
		}

		for _, link := range toCollapse {
			href, _ := dom.GetAttribute(link, "href")
			content, _ := store.Get(resourceKey(href))
			style := dom.CreateElement("style")
			dom.Append(style, dom.CreateTextNode(string(content)))
			dom.ReplaceWith(link, style)
		}
	}

	for _, styleNode := range document.SelectCompiled(selStyle) {
		text := dom.TextContent(styleNode)
		for _, path := range parseCSSImages(text) {
			content, ok := store.Get(resourceKey(path))
			if !ok {
				continue
			}
			dataURI, err := imageDataURI(content)
			if err != nil {
				continue
			}
			text = strings.Replace(text, path, dataURI, 1)
		}
		dom.SetTextContent(styleNode, text)
	}

	return nil
}
