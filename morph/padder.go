package morph

import (
	"bytes"
	"fmt"
)

// MinObjPadding is the fixed overhead every object of kind needs set
// aside before it can carry a padding marker, mirroring libalpaca's
// pad::min_obj_padding. CSS/JS need room for a `/* */` comment; images
// carry none, since a raw trailing byte run costs nothing extra.
func MinObjPadding(kind ObjectKind) int {
	switch kind {
	case KindCSS, KindJS:
		return 4
	default:
		return 0
	}
}

// GetHTMLPadding pads content with a trailing HTML comment so the
// result is exactly target bytes, returning the unmodified content if
// it is already at or above target. The comment needs at least 7 bytes
// ("<!--" + "-->"); gaps shorter than that are filled with trailing
// spaces instead of a comment.
func GetHTMLPadding(content []byte, target int) []byte {
	if len(content) >= target {
		return content
	}
	gap := target - len(content)
	if gap < 7 {
		// Not enough room for a well-formed comment; fall back to
		// trailing whitespace, which is always legal in HTML.
		out := make([]byte, 0, target)
		out = append(out, content...)
		for i := 0; i < gap; i++ {
			out = append(out, ' ')
		}
		return out
	}

	inner := gap - 7 // "<!--" + "-->" == 7 bytes of fixed overhead
	out := make([]byte, 0, target)
	out = append(out, content...)
	out = append(out, "<!--"...)
	out = append(out, bytes.Repeat([]byte{'-'}, inner)...)
	out = append(out, "-->"...)
	return out
}

// GetCommentPadding pads CSS/JS content with a trailing /* ... */
// comment. Needs at least 4 bytes of overhead ("/*" + "*/").
func GetCommentPadding(content []byte, target int) ([]byte, error) {
	if len(content) >= target {
		return content, nil
	}
	gap := target - len(content)
	if gap < 4 {
		return nil, fmt.Errorf("%w: gap %d too small for comment padding", ErrConstraintViolation, gap)
	}

	inner := gap - 4
	out := make([]byte, 0, target)
	out = append(out, content...)
	out = append(out, '/', '*')
	out = append(out, bytes.Repeat([]byte{'*'}, inner)...)
	out = append(out, '*', '/')
	return out, nil
}

// GetObjectPadding returns exactly target-current bytes of padding
// appropriate for kind, meant to be appended to the object's serving
// path. It never returns the full object; morph_object only ever hands
// the client the delta, and it is never handed the object's actual
// bytes — current and target are sizes, not content, for every kind
// including images.
func GetObjectPadding(kind ObjectKind, current, target int) ([]byte, error) {
	if target <= current {
		return nil, nil
	}
	need := target - current

	switch kind {
	case KindCSS, KindJS:
		if need < 4 {
			return nil, fmt.Errorf("%w: need %d bytes, minimum comment is 4", ErrConstraintViolation, need)
		}
		padding := make([]byte, 0, need)
		padding = append(padding, '/', '*')
		padding = append(padding, bytes.Repeat([]byte{'*'}, need-4)...)
		padding = append(padding, '*', '/')
		return padding, nil
	case KindIMG, KindCssImg:
		// JPEG, PNG and GIF decoders all stop at their own terminator
		// (the EOI marker, the IEND chunk, the trailer byte) — which is
		// already present in the current bytes — and never look past
		// it, so a raw run of filler bytes appended there stays valid
		// for any of the three without needing to know which one this
		// is or to locate the terminator in real content.
		return bytes.Repeat([]byte{0}, need), nil
	case KindHTML:
		if need < 7 {
			return nil, fmt.Errorf("%w: need %d bytes, minimum comment is 7", ErrConstraintViolation, need)
		}
		padding := make([]byte, 0, need)
		padding = append(padding, "<!--"...)
		if need > 7 {
			padding = append(padding, bytes.Repeat([]byte{'-'}, need-7)...)
		}
		padding = append(padding, "-->"...)
		return padding, nil
	default:
		return nil, fmt.Errorf("%w: unsupported object kind %s for padding", ErrBadInput, kind)
	}
}

// ImageFormat identifies the three raster formats the Inliner recognizes
// when building a data: URI's MIME type.
type ImageFormat int

const (
	ImageUnknown ImageFormat = iota
	ImageJPEG
	ImagePNG
	ImageGIF
)

// DetectImageFormat sniffs the format from magic bytes; the file
// extension of the reference is not consulted.
func DetectImageFormat(content []byte) ImageFormat {
	switch {
	case bytes.HasPrefix(content, []byte{0xFF, 0xD8, 0xFF}):
		return ImageJPEG
	case bytes.HasPrefix(content, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return ImagePNG
	case bytes.HasPrefix(content, []byte("GIF87a")), bytes.HasPrefix(content, []byte("GIF89a")):
		return ImageGIF
	default:
		return ImageUnknown
	}
}
