package morph

import "errors"

// Sentinel errors identifying the four error kinds from spec.md §7.
// Call sites wrap these with fmt.Errorf("...: %w", ErrX) so errors.Is
// still matches after context is added.
var (
	// ErrBadInput covers image content whose format is not recognized
	// during inlining and object kinds the Padder cannot pad. Malformed
	// HTML is reported by the dom package's own ErrBadInput.
	ErrBadInput = errors.New("morph: bad input")

	// ErrSamplingFailure covers descriptor parse errors and exhausted
	// sampling retry budgets.
	ErrSamplingFailure = errors.New("morph: sampling failure")

	// ErrConstraintViolation covers an exhausted deterministic bucket
	// or a max_obj_size too small to hold the required fake count.
	ErrConstraintViolation = errors.New("morph: constraint violation")

	// ErrInternal covers DOM invariants that should be unreachable.
	ErrInternal = errors.New("morph: internal error")
)
