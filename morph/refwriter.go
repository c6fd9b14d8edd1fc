package morph

import (
	"fmt"
	"strconv"
	"strings"

	"go.alpaca.dev/morph/dom"
)

// InsertObjectRefs annotates the first n objects (the originals that
// survived morphing, in parse order) with their sampled target size,
// then appends one hidden <img> placeholder per remaining (padding)
// object. Mirrors libalpaca's utils::insert_objects_refs.
func InsertObjectRefs(document *dom.Document, objects []Object, n int) error {
	if n > len(objects) {
		n = len(objects)
	}
	originals := objects[:n]
	padding := objects[n:]

	for i := range originals {
		obj := &originals[i]
		if !obj.HasTargetSize() {
			continue
		}
		if err := appendRef(obj); err != nil {
			return err
		}
	}

	addPaddingObjects(document, padding)
	return nil
}

// appendRef appends "?alpaca-padding=<size>" (or "&…" if the URI
// already carries a query string) to the element's reference attribute,
// or substitutes it into a <style> element's text when the object's
// reference lives in inline CSS.
func appendRef(obj *Object) error {
	if obj.Node == nil {
		return fmt.Errorf("%w: object %q has no backing node", ErrInternal, obj.URI)
	}

	sep := byte('?')
	if strings.Contains(obj.URI, "?") {
		sep = '&'
	}
	newRef := obj.URI + string(sep) + "alpaca-padding=" + strconv.Itoa(*obj.TargetSize)

	attr := attrForKind(obj.Node)
	if attr == "style" {
		replaceInStyleText(obj.Node, obj.URI, newRef)
		return nil
	}
	dom.SetAttribute(obj.Node, attr, newRef)
	return nil
}

// addPaddingObjects appends one hidden <img> per FakeIMG object to
// <body> (or the document root, if there is no body), each pointing at
// the well-known fake-image endpoint with its sampled target size and a
// 1-based index. Mirrors libalpaca's utils::add_padding_objects.
func addPaddingObjects(document *dom.Document, padding []Object) {
	parent := dom.BodyOrRoot(document)

	for i, obj := range padding {
		img := dom.CreateElement("img")
		src := fmt.Sprintf("/__alpaca_fake_image.png?alpaca-padding=%d&i=%d", *obj.TargetSize, i+1)
		dom.SetAttribute(img, "src", src)
		dom.SetAttribute(img, "style", "visibility:hidden")
		dom.Append(parent, img)
	}
}
