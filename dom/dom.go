// Package dom wraps golang.org/x/net/html for the rest of the morphing
// engine: parse, serialize, create element, read/write attribute,
// append, detach, walk selectors (see select.go). The functions here take
// and return *html.Node values, so the morph package still imports
// golang.org/x/net/html for the node type itself.
package dom

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrBadInput is returned when the supplied bytes cannot be parsed as HTML.
var ErrBadInput = errors.New("dom: input is not valid HTML")

// Document is a parsed HTML tree rooted at the html5ever-equivalent
// document node produced by golang.org/x/net/html.
type Document struct {
	Root *html.Node
}

// Parse parses r into a Document. Unlike html5ever's ParseOpts, x/net/html
// never drops the doctype on its own; Parse strips a leading DoctypeNode
// child to match the original implementation's drop_doctype behavior.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, ErrBadInput
	}
	dropDoctype(root)
	return &Document{Root: root}, nil
}

// ParseBytes is a convenience wrapper around Parse for []byte input.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func dropDoctype(root *html.Node) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			Detach(c)
			return
		}
	}
}

// Serialize renders the document back to bytes.
func (d *Document) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateElement constructs a detached element node with the given tag
// name, mirroring libalpaca's dom::create_element.
func CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode constructs a detached text node.
func CreateTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// CreateStyleNode builds a <style> element whose sole child is a text
// node holding cssText, mirroring libalpaca's dom::create_css_node.
func CreateStyleNode(cssText string) *html.Node {
	el := CreateElement("style")
	el.AppendChild(CreateTextNode(cssText))
	return el
}

// GetAttribute reads an attribute by name, case-insensitively on the name
// per HTML semantics. ok is false when the attribute is absent.
func GetAttribute(n *html.Node, name string) (value string, ok bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets (or replaces) an attribute on n.
func SetAttribute(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// Append appends child as the last child of parent.
func Append(parent, child *html.Node) {
	parent.AppendChild(child)
}

// Detach removes n from its parent, if any. Safe to call on already
// detached nodes.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith swaps old for replacement in old's parent, preserving
// position. old is left detached.
func ReplaceWith(old, replacement *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
}

// TagName returns the lowercase tag name of an element node, or "" for
// non-element nodes.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// LastChild returns n's last child, or nil.
func LastChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return n.LastChild
}

// TextContent concatenates the Data of every direct TextNode child of n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// SetTextContent replaces n's text content, rewriting the Data of its
// first TextNode child in place (so node identity — and any back
// references held elsewhere — survives the mutation). If n has no
// TextNode child yet, one is appended.
func SetTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			c.Data = text
			return
		}
	}
	Append(n, CreateTextNode(text))
}

// HeadOrRoot returns the document's <head> element if present, else the
// document root itself — mirroring libalpaca's insert_empty_favicon
// fallback.
func HeadOrRoot(d *Document) *html.Node {
	if head := firstByTag(d.Root, "head"); head != nil {
		return head
	}
	return d.Root
}

// BodyOrRoot returns the document's <body> element if present, else the
// document root itself — mirroring libalpaca's add_padding_objects
// fallback.
func BodyOrRoot(d *Document) *html.Node {
	if body := firstByTag(d.Root, "body"); body != nil {
		return body
	}
	return d.Root
}

func firstByTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}
