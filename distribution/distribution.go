// Package distribution implements the Distribution Sampler: parsing an
// opaque descriptor string into a Dist, then drawing samples bounded
// below by a caller-supplied lower bound.
//
// Descriptor grammar (this module's own — the original spec leaves it
// opaque to the core):
//
//	Uniform(min, max)
//	Normal(mu, sigma)
//	Pareto(xm, alpha)
//	Weibull(k, lambda)
//	Joint(<dist-a>; <dist-b>)
package distribution

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which family of distribution a Dist describes.
type Kind int

const (
	KindUniform Kind = iota
	KindNormal
	KindPareto
	KindWeibull
	KindJoint
)

// Dist is a named distribution plus its parameters, as parsed from a
// host-supplied descriptor string.
type Dist struct {
	Name   string
	kind   Kind
	params []float64

	// A and B are the two marginal distributions of a Joint dist. Nil
	// for all other kinds.
	A, B *Dist
}

// ErrBadDescriptor is returned by Parse for malformed or unknown
// descriptor strings.
type ErrBadDescriptor struct {
	Descriptor string
	Reason     string
}

func (e *ErrBadDescriptor) Error() string {
	return fmt.Sprintf("distribution: bad descriptor %q: %s", e.Descriptor, e.Reason)
}

// Parse parses a descriptor string into a Dist.
func Parse(descriptor string) (*Dist, error) {
	return parse(strings.TrimSpace(descriptor))
}

func parse(s string) (*Dist, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, &ErrBadDescriptor{Descriptor: s, Reason: "expected Name(params)"}
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]

	if strings.EqualFold(name, "Joint") {
		parts := splitTop(inner, ';')
		if len(parts) != 2 {
			return nil, &ErrBadDescriptor{Descriptor: s, Reason: "Joint requires exactly two sub-distributions separated by ';'"}
		}
		a, err := parse(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		b, err := parse(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		return &Dist{Name: "Joint", kind: KindJoint, A: a, B: b}, nil
	}

	params, err := parseFloats(inner)
	if err != nil {
		return nil, &ErrBadDescriptor{Descriptor: s, Reason: err.Error()}
	}

	kind, want, err := kindFor(name)
	if err != nil {
		return nil, &ErrBadDescriptor{Descriptor: s, Reason: err.Error()}
	}
	if len(params) != want {
		return nil, &ErrBadDescriptor{Descriptor: s, Reason: fmt.Sprintf("%s wants %d params, got %d", name, want, len(params))}
	}

	return &Dist{Name: name, kind: kind, params: params}, nil
}

func kindFor(name string) (Kind, int, error) {
	switch strings.ToLower(name) {
	case "uniform":
		return KindUniform, 2, nil
	case "normal", "gaussian":
		return KindNormal, 2, nil
	case "pareto":
		return KindPareto, 2, nil
	case "weibull":
		return KindWeibull, 2, nil
	default:
		return 0, 0, fmt.Errorf("unknown distribution %q", name)
	}
}

func parseFloats(inner string) ([]float64, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	fields := splitTop(inner, ',')
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric parameter %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// splitTop splits on sep at paren-depth 0 only, so nested Name(a,b) calls
// inside a Joint(...) aren't mis-split on their own internal commas.
func splitTop(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// IsJoint reports whether d is a two-dimensional Joint distribution.
func (d *Dist) IsJoint() bool { return d.kind == KindJoint }
