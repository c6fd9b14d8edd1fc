package morph

import (
	"errors"
	"testing"

	"go.alpaca.dev/morph/distribution"
	"go.alpaca.dev/morph/dom"
	"go.alpaca.dev/morph/resourcemap"
)

func TestGetMultiple_Invariant(t *testing.T) {
	tests := []struct{ k, x int }{
		{4, 10}, {256, 0}, {256, 256}, {7, 50}, {1, 1},
	}
	for _, tt := range tests {
		got := getMultiple(tt.k, tt.x)
		if got%tt.k != 0 {
			t.Errorf("getMultiple(%d,%d) = %d, not a multiple of %d", tt.k, tt.x, got, tt.k)
		}
		if got < tt.x {
			t.Errorf("getMultiple(%d,%d) = %d, < %d", tt.k, tt.x, got, tt.x)
		}
		if got-tt.k >= tt.x {
			t.Errorf("getMultiple(%d,%d) = %d, not the smallest such multiple", tt.k, tt.x, got)
		}
	}
}

func TestGetMultiplesInRange_DistinctAndBounded(t *testing.T) {
	sizes, err := getMultiplesInRange(100, 1000, 5)
	if err != nil {
		t.Fatalf("getMultiplesInRange: %v", err)
	}
	seen := map[int]bool{}
	for _, s := range sizes {
		if s%100 != 0 || s > 1000 {
			t.Errorf("size %d out of range/not a multiple of 100", s)
		}
		if seen[s] {
			t.Errorf("size %d repeated, want distinct samples", s)
		}
		seen[s] = true
	}
}

func TestGetMultiplesInRange_ExhaustedBucket(t *testing.T) {
	_, err := getMultiplesInRange(500, 1000, 10)
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
}

func TestMorphDeterministic_PadsToMultiples(t *testing.T) {
	doc, err := dom.ParseBytes([]byte(`<html><body><img src="a.png"></body></html>`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	img := doc.SelectOne("img")
	objects := []Object{NewExisting([]byte("0123456789"), KindIMG, "a.png", img)}

	cfg := &Config{ObjNum: 4, ObjSize: 256, MaxObjSize: 4096}
	result, err := morphDeterministic(doc, &objects, cfg)
	if err != nil {
		t.Fatalf("morphDeterministic: %v", err)
	}

	if len(objects) != 4 {
		t.Fatalf("got %d objects, want target_count=4", len(objects))
	}
	if result.TargetHTMLSize%256 != 0 {
		t.Errorf("TargetHTMLSize %d is not a multiple of obj_size", result.TargetHTMLSize)
	}
	if *objects[0].TargetSize%256 != 0 {
		t.Errorf("object target size %d is not a multiple of obj_size", *objects[0].TargetSize)
	}
}

func TestMorphProbabilistic_FallsBackOnObjNumSamplingFailure(t *testing.T) {
	doc, err := dom.ParseBytes([]byte(`<html><body><img src="a.png"></body></html>`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	img := doc.SelectOne("img")
	objects := []Object{NewExisting([]byte("0123456789"), KindIMG, "a.png", img)}

	// Uniform(0, 0.4) always rounds to 0, which can never satisfy the
	// lower bound of 1 (one existing object, inlining disabled) — this
	// deterministically exhausts the retry budget so the fallback path
	// (leave initialObjNum unchanged, log, continue) runs.
	distObjNum, _ := distribution.Parse("Uniform(0, 0.4)")
	distHTMLSize, _ := distribution.Parse("Uniform(0, 100000)")
	distObjSize, _ := distribution.Parse("Uniform(0, 100000)")

	cfg := &Config{
		Probabilistic: true,
		DistObjNum:    distObjNum,
		DistHTMLSize:  distHTMLSize,
		DistObjSize:   distObjSize,
	}
	sampler := distribution.NewSeededSampler(1)

	_, err = morphProbabilistic(doc, &objects, sampler, cfg)
	if err != nil {
		t.Fatalf("morphProbabilistic: %v", err)
	}
}

func TestRunHTML_EndToEnd(t *testing.T) {
	doc, err := dom.ParseBytes([]byte(`<html><head></head><body><img src="a.png"></body></html>`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	store := resourcemap.NewMapStore()
	store.Set("/a.png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})

	cfg := &Config{ObjNum: 2, ObjSize: 128, MaxObjSize: 2048}
	sampler := distribution.NewSeededSampler(5)

	result, err := RunHTML(doc, store, sampler, cfg)
	if err != nil {
		t.Fatalf("RunHTML: %v", err)
	}
	if result.TargetHTMLSize <= 0 {
		t.Errorf("TargetHTMLSize = %d, want positive", result.TargetHTMLSize)
	}
}
