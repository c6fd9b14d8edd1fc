// Package morph implements the ALPaCA page-morphing core: the parser
// that discovers sub-resources, the padder that lands objects on exact
// target byte lengths, the inliner that folds resources into the
// document, the morphing engine that samples target sizes, and the
// reference writer that annotates the final document.
package morph

import "golang.org/x/net/html"

// ObjectKind classifies a sub-resource discovered in a document.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindHTML
	KindCSS
	KindJS
	KindIMG
	KindCssImg
	KindFakeIMG
)

// String renders a human-readable name, used in log fields.
func (k ObjectKind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindCSS:
		return "css"
	case KindJS:
		return "js"
	case KindIMG:
		return "img"
	case KindCssImg:
		return "css-img"
	case KindFakeIMG:
		return "fake-img"
	default:
		return "unknown"
	}
}

// Object is a single sub-resource reference discovered in the document,
// or a synthetic padding placeholder (FakeIMG).
//
// Invariant: Kind == KindFakeIMG iff Node == nil && len(Content) == 0.
type Object struct {
	Kind ObjectKind

	// Content holds the raw bytes already fetched for this resource.
	// Empty for FakeIMG objects.
	Content []byte

	// Node is the DOM element that produced this Object, or nil for
	// FakeIMG objects. Objects the Inliner absorbs are dropped from the
	// list rather than kept with a nil Node.
	Node *html.Node

	// TargetSize is the desired byte length after padding. nil means
	// sampling failed for this object and it is left unpadded.
	TargetSize *int

	// URI is the reference exactly as it appeared in the source
	// document (before any query-string stripping).
	URI string
}

// NewExisting constructs an Object backed by a real DOM node, mirroring
// libalpaca's dom::Object::existing.
func NewExisting(content []byte, kind ObjectKind, uri string, node *html.Node) Object {
	return Object{
		Kind:    kind,
		Content: append([]byte(nil), content...),
		Node:    node,
		URI:     uri,
	}
}

// NewFakeImage constructs a padding placeholder, mirroring libalpaca's
// dom::Object::fake_image.
func NewFakeImage(targetSize int) Object {
	return Object{
		Kind:       KindFakeIMG,
		URI:        "pad_object",
		TargetSize: &targetSize,
	}
}

// HasTargetSize reports whether sampling succeeded for this object.
func (o *Object) HasTargetSize() bool { return o.TargetSize != nil }

// SetTargetSize records a successfully sampled target size.
func (o *Object) SetTargetSize(n int) { o.TargetSize = &n }
