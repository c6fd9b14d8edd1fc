package distribution

import (
	"errors"
	"testing"
)

func TestSampleGE_RespectsLowerBound(t *testing.T) {
	dist, err := Parse("Uniform(0, 100)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sampler := NewSeededSampler(1)

	for i := 0; i < 50; i++ {
		v, err := sampler.SampleGE(dist, 80)
		if err != nil {
			t.Fatalf("SampleGE: %v", err)
		}
		if v < 80 {
			t.Fatalf("SampleGE returned %d, want >= 80", v)
		}
	}
}

func TestSampleGE_ExhaustsRetryBudget(t *testing.T) {
	dist, err := Parse("Uniform(0, 10)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sampler := NewSeededSampler(2).WithMaxAttempts(5)

	_, err = sampler.SampleGE(dist, 1000)
	if !errors.Is(err, ErrNoSampleInRange) {
		t.Fatalf("SampleGE error = %v, want ErrNoSampleInRange", err)
	}
}

func TestSampleGE_Deterministic(t *testing.T) {
	dist, _ := Parse("Normal(1000, 200)")

	a, err := NewSeededSampler(42).SampleGE(dist, 0)
	if err != nil {
		t.Fatalf("SampleGE: %v", err)
	}
	b, err := NewSeededSampler(42).SampleGE(dist, 0)
	if err != nil {
		t.Fatalf("SampleGE: %v", err)
	}
	if a != b {
		t.Errorf("same seed produced different samples: %d != %d", a, b)
	}
}

func TestSampleGEMany_AllSatisfyBound(t *testing.T) {
	dist, _ := Parse("Uniform(0, 5000)")
	sampler := NewSeededSampler(7)

	sizes, err := sampler.SampleGEMany(dist, 100, 10)
	if err != nil {
		t.Fatalf("SampleGEMany: %v", err)
	}
	if len(sizes) != 10 {
		t.Fatalf("got %d sizes, want 10", len(sizes))
	}
	for _, v := range sizes {
		if v < 100 {
			t.Errorf("size %d < lower bound 100", v)
		}
	}
}

func TestSamplePairGE_RequiresJoint(t *testing.T) {
	dist, _ := Parse("Uniform(0, 10)")
	sampler := NewSeededSampler(3)

	_, _, err := sampler.SamplePairGE(dist, 0, 0)
	if err == nil {
		t.Fatal("expected error for non-Joint distribution")
	}
}

func TestSamplePairGE_RespectsBothBounds(t *testing.T) {
	dist, err := Parse("Joint(Uniform(0,1000); Uniform(0,1000))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sampler := NewSeededSampler(9)

	a, b, err := sampler.SamplePairGE(dist, 500, 700)
	if err != nil {
		t.Fatalf("SamplePairGE: %v", err)
	}
	if a < 500 || b < 700 {
		t.Errorf("SamplePairGE = (%d, %d), want >= (500, 700)", a, b)
	}
}
