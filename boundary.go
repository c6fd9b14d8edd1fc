package alpaca

import (
	"fmt"

	"go.alpaca.dev/morph/distribution"
	"go.alpaca.dev/morph/dom"
	"go.alpaca.dev/morph/morph"
	"go.alpaca.dev/morph/resourcemap"
)

// MorphHTML parses htmlContent, samples or computes target sizes for
// every sub-resource and for the page itself, rewrites references, pads
// the serialized document to its target size, and returns the result.
// On a recoverable engine error the original, un-morphed document is
// serialized and returned instead — morphing is never an outage
// (spec.md §7).
func MorphHTML(info *MorphInfo, htmlContent []byte, store resourcemap.Store) (MorphResult, error) {
	requestID := ensureRequestID(info.RequestID)

	document, err := dom.ParseBytes(htmlContent)
	if err != nil {
		return MorphResult{}, fmt.Errorf("alpaca: decoding html: %w", err)
	}

	cfg, err := toEngineConfig(info)
	if err != nil {
		log.Warnw("degrading to unmorphed document: bad distribution descriptor",
			"requestID", requestID, "error", err)
		return serializeAsIs(document, requestID)
	}

	sampler := distribution.NewSeededSampler(requestSeed(requestID))

	result, err := morph.RunHTML(document, store, sampler, cfg)
	if err != nil {
		log.Warnw("degrading to unmorphed document: morph failed",
			"requestID", requestID, "error", err)
		// RunHTML may already have mutated document; start again from
		// the input bytes.
		document, err = dom.ParseBytes(htmlContent)
		if err != nil {
			return MorphResult{}, fmt.Errorf("alpaca: decoding html: %w", err)
		}
		return serializeAsIs(document, requestID)
	}

	content, err := document.Serialize()
	if err != nil {
		return MorphResult{}, fmt.Errorf("alpaca: serializing morphed document: %w", err)
	}
	padded := morph.GetHTMLPadding(content, result.TargetHTMLSize)

	return MorphResult{Content: padded, RequestID: requestID}, nil
}

func serializeAsIs(document *dom.Document, requestID string) (MorphResult, error) {
	content, err := document.Serialize()
	if err != nil {
		return MorphResult{}, fmt.Errorf("alpaca: serializing fallback document: %w", err)
	}
	return MorphResult{Content: content, RequestID: requestID}, nil
}

// MorphObject re-derives the padding bytes for a single previously
// morphed sub-resource. Per spec.md §4.5 "Object morphing", the caller
// must have already parsed the target size out of the resource's
// `alpaca-padding` query parameter.
func MorphObject(info *ObjectMorphInfo) ([]byte, error) {
	if info.TargetSize == 0 || info.TargetSize <= len(info.Content) {
		return nil, nil
	}

	kind := objectKindFromContentType(info.ContentType)
	return morph.GetObjectPadding(kind, len(info.Content), info.TargetSize)
}

func objectKindFromContentType(contentType string) morph.ObjectKind {
	switch contentType {
	case "text/css":
		return morph.KindCSS
	case "application/javascript", "text/javascript":
		return morph.KindJS
	case "image/jpeg", "image/png", "image/gif":
		return morph.KindIMG
	default:
		return morph.KindUnknown
	}
}

// InlineAllCSS collapses every non-favicon <link> in htmlContent into an
// inline <style> element, regardless of its rel attribute, and every
// CSS-referenced image into a data: URI, leaving no such <link> behind.
// Used by hosts that want to serve self-contained pages independent of
// morphing.
func InlineAllCSS(htmlContent []byte, store resourcemap.Store) ([]byte, error) {
	document, err := dom.ParseBytes(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("alpaca: decoding html: %w", err)
	}
	if err := morph.InlineAllCSS(document, store); err != nil {
		return nil, err
	}
	return document.Serialize()
}

// GetHTMLRequiredFiles returns the `/`-prefixed sub-resource URIs a host
// must resolve into its resourcemap.Store before calling MorphHTML.
func GetHTMLRequiredFiles(htmlContent []byte) ([]string, error) {
	document, err := dom.ParseBytes(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("alpaca: decoding html: %w", err)
	}
	return morph.ParseObjectNames(document), nil
}

// GetRequiredCSSFiles returns the `/`-prefixed stylesheet URIs a host
// must resolve before calling InlineAllCSS.
func GetRequiredCSSFiles(htmlContent []byte) ([]string, error) {
	document, err := dom.ParseBytes(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("alpaca: decoding html: %w", err)
	}
	return morph.ParseCSSNames(document), nil
}

// requestSeed derives a deterministic int64 seed from a request ID so
// that repeating the same RequestID in a test reproduces the same
// sampled sizes, without the boundary needing to expose *rand.Rand to
// callers that don't care.
func requestSeed(requestID string) int64 {
	var h uint64 = 14695981039346656037 // FNV offset basis
	for i := 0; i < len(requestID); i++ {
		h ^= uint64(requestID[i])
		h *= 1099511628211 // FNV prime
	}
	return int64(h)
}
