// Package alpaca is the public boundary of the ALPaCA page-morphing
// engine: it accepts raw HTML and a resource map and returns a
// size-morphed document, following the reference-map/target-size
// protocol described by the Tor/website-fingerprinting defense of the
// same name. Every other package in this module (dom, morph,
// distribution, resourcemap) is an implementation detail reachable
// through this one.
package alpaca

import (
	"fmt"

	"github.com/google/uuid"

	"go.alpaca.dev/morph/distribution"
	"go.alpaca.dev/morph/morph"
)

// MorphInfo is the host-supplied configuration for one MorphHTML call,
// carrying libalpaca's MorphInfo configuration fields and its
// alias/host/root request context. The page bytes are passed to
// MorphHTML as a separate argument, and the FFI struct's request URI,
// content type and query fields have no counterpart here.
type MorphInfo struct {
	// RequestID correlates every log line this call emits. Left empty,
	// one is minted automatically so structured logs are always
	// joinable.
	RequestID string

	// Alias, HTTPHost and Root describe the requesting page, carried
	// through for parity with the original FFI surface; the engine
	// itself doesn't interpret them.
	Alias    string
	HTTPHost string
	Root     string

	ObjInliningEnabled bool

	// Probabilistic-mode fields. DistHTMLSize/DistObjNum/DistObjSize are
	// descriptor strings parsed via distribution.Parse.
	Probabilistic   bool
	UseTotalObjSize bool
	DistHTMLSize    string
	DistObjNum      string
	DistObjSize     string

	// Deterministic-mode fields.
	MaxObjSize int
	ObjNum     int
	ObjSize    int
}

// ObjectMorphInfo is the host-supplied configuration for one MorphObject
// call: re-derive the padding for a single previously-morphed
// sub-resource from its query string.
type ObjectMorphInfo struct {
	RequestID   string
	ContentType string
	Content     []byte
	TargetSize  int
}

// MorphResult is the outcome of a successful MorphHTML call.
type MorphResult struct {
	Content   []byte
	RequestID string
}

func ensureRequestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// toEngineConfig translates the host-facing MorphInfo into the morph
// package's leaner Config, parsing distribution descriptors eagerly so
// a malformed descriptor fails fast with ErrSamplingFailure instead of
// surfacing mid-morph.
func toEngineConfig(info *MorphInfo) (*morph.Config, error) {
	cfg := &morph.Config{
		ObjInliningEnabled: info.ObjInliningEnabled,
		Probabilistic:      info.Probabilistic,
		UseTotalObjSize:    info.UseTotalObjSize,
		MaxObjSize:         info.MaxObjSize,
		ObjNum:             info.ObjNum,
		ObjSize:            info.ObjSize,
	}

	if !info.Probabilistic {
		return cfg, nil
	}

	var err error
	cfg.DistHTMLSize, err = distribution.Parse(info.DistHTMLSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", morph.ErrSamplingFailure, err)
	}
	cfg.DistObjNum, err = distribution.Parse(info.DistObjNum)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", morph.ErrSamplingFailure, err)
	}
	cfg.DistObjSize, err = distribution.Parse(info.DistObjSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", morph.ErrSamplingFailure, err)
	}
	return cfg, nil
}
