package morph

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"go.alpaca.dev/morph/distribution"
	"go.alpaca.dev/morph/dom"
	"go.alpaca.dev/morph/resourcemap"
)

// Magic overhead constants from the wire format — see spec §6 "Persisted
// wire markers". These are load-bearing: changing them changes every
// byte offset a deployed client has already observed.
const (
	htmlCommentOverhead  = 7  // "<!--" + "-->"
	paddingParamOverhead = 23 // "?alpaca-padding=" plus a few digits of headroom
	fakeImageOverhead    = 94 // serialized <img src=/__alpaca_fake_image.png?...> element
)

// Config holds the subset of MorphInfo the Engine needs, decoupled from
// the host-facing request/response fields the root package owns.
type Config struct {
	ObjInliningEnabled bool

	// Probabilistic mode.
	Probabilistic   bool
	UseTotalObjSize bool
	DistHTMLSize    *distribution.Dist
	DistObjNum      *distribution.Dist
	DistObjSize     *distribution.Dist

	// Deterministic mode.
	MaxObjSize int
	ObjNum     int
	ObjSize    int
}

// Result is the outcome of a morph pass: the target HTML length and the
// index at which original objects end and padding objects begin.
type Result struct {
	TargetHTMLSize int
	NewOrigN       int
}

// RunHTML executes the full morph_html pipeline (spec.md §4.5/§4.6):
// parse, drop cross-origin objects, morph (sample or compute target
// sizes), write references, and report the target HTML size for the
// caller's Padder pass. The document is mutated in place.
func RunHTML(document *dom.Document, store resourcemap.Store, sampler *distribution.Sampler, cfg *Config) (Result, error) {
	objects := ParseObjects(document, store)
	objects = keepLocalObjects(objects)

	result, err := Morph(document, &objects, sampler, cfg)
	if err != nil {
		return Result{}, err
	}

	if err := InsertObjectRefs(document, objects, result.NewOrigN); err != nil {
		return Result{}, err
	}

	return result, nil
}

// Morph samples or computes target sizes for every object and for the
// overall HTML document, mutating objects in place (setting TargetSize,
// appending FakeIMG entries, and possibly shrinking the slice via
// inlining). It dispatches to probabilistic or deterministic mode per
// cfg.Probabilistic, mirroring libalpaca's morphing::morph_html branch.
func Morph(document *dom.Document, objects *[]Object, sampler *distribution.Sampler, cfg *Config) (Result, error) {
	if cfg.Probabilistic {
		return morphProbabilistic(document, objects, sampler, cfg)
	}
	return morphDeterministic(document, objects, cfg)
}

func morphProbabilistic(document *dom.Document, objects *[]Object, sampler *distribution.Sampler, cfg *Config) (Result, error) {
	initialObjNum := len(*objects)

	lowerBoundObjNum := initialObjNum
	if cfg.ObjInliningEnabled {
		lowerBoundObjNum = 0
	}

	targetObjNum, err := sampler.SampleGE(cfg.DistObjNum, lowerBoundObjNum)
	if err != nil {
		log.Warnw("could not sample object number, leaving unchanged",
			"error", err, "initialObjNum", initialObjNum)
		targetObjNum = initialObjNum
	}

	serialized, err := document.Serialize()
	if err != nil {
		return Result{}, fmt.Errorf("%w: serializing document: %v", ErrInternal, err)
	}

	if targetObjNum < initialObjNum && !cfg.ObjInliningEnabled {
		targetObjNum = initialObjNum
	}

	collapsing := targetObjNum < initialObjNum && cfg.ObjInliningEnabled

	var finalObjNum, minHTMLSize int
	if collapsing {
		finalObjNum = targetObjNum
		minHTMLSize = len(serialized) + htmlCommentOverhead + paddingParamOverhead*initialObjNum
	} else {
		finalObjNum = targetObjNum - initialObjNum
		minHTMLSize = len(serialized) + htmlCommentOverhead + paddingParamOverhead*initialObjNum + fakeImageOverhead*finalObjNum
	}

	var targetHTMLSize int
	var newOrigN int

	if !cfg.UseTotalObjSize {
		targetHTMLSize, err = sampler.SampleGE(cfg.DistHTMLSize, minHTMLSize)
		if err != nil {
			return Result{}, fmt.Errorf("%w: sampling html size: %v", ErrSamplingFailure, err)
		}

		samplesNum := targetObjNum
		if collapsing {
			samplesNum = initialObjNum
		}

		targetObjSizes, err := sampler.SampleGEMany(cfg.DistObjSize, 1, samplesNum)
		if err != nil {
			return Result{}, fmt.Errorf("%w: sampling object sizes: %v", ErrSamplingFailure, err)
		}
		sort.Ints(targetObjSizes) // ascending

		objs := *objects
		for i := range objs {
			obj := &objs[i]
			needed := len(obj.Content) + MinObjPadding(obj.Kind)

			if len(targetObjSizes) > 0 && targetObjSizes[len(targetObjSizes)-1] >= needed {
				obj.SetTargetSize(targetObjSizes[len(targetObjSizes)-1])
				targetObjSizes = targetObjSizes[:len(targetObjSizes)-1]
				continue
			}

			size, err := sampler.SampleGE(cfg.DistObjSize, needed)
			if err != nil {
				log.Warnw("no padding size found for object, leaving unpadded", "uri", obj.URI, "error", err)
				continue
			}
			obj.SetTargetSize(size)
		}

		if collapsing {
			rest, err := InlineObjects(document, objs, initialObjNum-targetObjNum)
			if err != nil {
				return Result{}, err
			}
			*objects = rest
			newOrigN = targetObjNum
		} else {
			for i := 0; i < finalObjNum; i++ {
				size := 0
				if i < len(targetObjSizes) {
					size = targetObjSizes[i]
				}
				objs = append(objs, NewFakeImage(size))
			}
			*objects = objs
			newOrigN = initialObjNum
		}
	} else {
		objs := *objects
		minObjSize := 0
		for i := range objs {
			minObjSize += len(objs[i].Content) + MinObjPadding(objs[i].Kind)
		}

		var targetObjSize int
		if cfg.DistObjSize.IsJoint() {
			a, b, err := sampler.SamplePairGE(cfg.DistHTMLSize, minHTMLSize, minObjSize)
			if err != nil {
				return Result{}, fmt.Errorf("%w: sampling joint html/object size: %v", ErrSamplingFailure, err)
			}
			targetHTMLSize, targetObjSize = a, b
		} else {
			targetHTMLSize, err = sampler.SampleGE(cfg.DistHTMLSize, minHTMLSize)
			if err != nil {
				return Result{}, fmt.Errorf("%w: sampling html size: %v", ErrSamplingFailure, err)
			}
			targetObjSize, err = sampler.SampleGE(cfg.DistObjSize, minObjSize)
			if err != nil {
				return Result{}, fmt.Errorf("%w: sampling total object size: %v", ErrSamplingFailure, err)
			}
		}

		if collapsing {
			rest, err := InlineObjects(document, objs, initialObjNum-targetObjNum)
			if err != nil {
				return Result{}, err
			}
			objs = rest
			newOrigN = targetObjNum
		} else {
			for i := 0; i < finalObjNum; i++ {
				objs = append(objs, NewFakeImage(0))
			}
			newOrigN = initialObjNum
		}

		// Open Question (i): clamp a zero object count to 1 so the divisor
		// below can never be zero. With targetObjNum == 0 the object list
		// is empty at this point, so the loop does not run and no object
		// receives any of the budget.
		if targetObjNum == 0 {
			targetObjNum = 1
		}

		toSplit := targetObjSize - minObjSize
		for pos := range objs {
			remaining := targetObjNum - pos
			if remaining <= 0 {
				remaining = 1
			}
			pad := toSplit / remaining
			objs[pos].SetTargetSize(len(objs[pos].Content) + MinObjPadding(objs[pos].Kind) + pad)
			toSplit -= pad
		}

		*objects = objs
	}

	return Result{TargetHTMLSize: targetHTMLSize, NewOrigN: newOrigN}, nil
}

func morphDeterministic(document *dom.Document, objects *[]Object, cfg *Config) (Result, error) {
	initialObjNum := len(*objects)

	targetCount := cfg.ObjNum
	if !cfg.ObjInliningEnabled {
		targetCount = getMultiple(cfg.ObjNum, initialObjNum)
	}

	objs := *objects
	for i := range objs {
		overhead := MinObjPadding(objs[i].Kind)
		minSize := len(objs[i].Content) + overhead
		objs[i].SetTargetSize(getMultiple(cfg.ObjSize, minSize))
	}

	var newOrigN int
	if targetCount < initialObjNum && cfg.ObjInliningEnabled {
		rest, err := InlineObjects(document, objs, initialObjNum-targetCount)
		if err != nil {
			return Result{}, err
		}
		objs = rest
		newOrigN = targetCount
	} else {
		fakeCount := targetCount - initialObjNum
		sizes, err := getMultiplesInRange(cfg.ObjSize, cfg.MaxObjSize, fakeCount)
		if err != nil {
			return Result{}, err
		}
		for _, size := range sizes {
			objs = append(objs, NewFakeImage(size))
		}
		newOrigN = initialObjNum
	}
	*objects = objs

	serialized, err := document.Serialize()
	if err != nil {
		return Result{}, fmt.Errorf("%w: serializing document: %v", ErrInternal, err)
	}
	htmlMinSize := len(serialized) + htmlCommentOverhead

	return Result{
		TargetHTMLSize: getMultiple(cfg.ObjSize, htmlMinSize),
		NewOrigN:       newOrigN,
	}, nil
}

// getMultiple returns the smallest multiple of k that is >= x (k=0 is
// treated as "no quantization", returning x unchanged).
func getMultiple(k, x int) int {
	if k <= 0 {
		return x
	}
	if x%k == 0 {
		return x
	}
	return (x/k + 1) * k
}

// getMultiplesInRange draws n distinct multiples of objSize, each no
// larger than maxObjSize, without replacement — mirroring libalpaca's
// deterministic::get_multiples_in_range. Returns ErrConstraintViolation
// if the candidate bucket can't satisfy n.
func getMultiplesInRange(objSize, maxObjSize, n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	if objSize <= 0 {
		return nil, fmt.Errorf("%w: obj_size must be positive", ErrConstraintViolation)
	}

	var candidates []int
	for v := objSize; v <= maxObjSize; v += objSize {
		candidates = append(candidates, v)
	}
	if len(candidates) < n {
		return nil, fmt.Errorf("%w: not enough multiples", ErrConstraintViolation)
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:n], nil
}
