package alpaca

import "testing"

func TestEnsureRequestID_PreservesExisting(t *testing.T) {
	if got := ensureRequestID("fixed-id"); got != "fixed-id" {
		t.Errorf("ensureRequestID = %q, want fixed-id", got)
	}
}

func TestEnsureRequestID_GeneratesWhenEmpty(t *testing.T) {
	got := ensureRequestID("")
	if got == "" {
		t.Error("ensureRequestID(\"\") returned empty string")
	}
}

func TestToEngineConfig_DeterministicPassthrough(t *testing.T) {
	info := &MorphInfo{ObjNum: 4, ObjSize: 128, MaxObjSize: 2048}
	cfg, err := toEngineConfig(info)
	if err != nil {
		t.Fatalf("toEngineConfig: %v", err)
	}
	if cfg.ObjNum != 4 || cfg.ObjSize != 128 || cfg.MaxObjSize != 2048 {
		t.Errorf("cfg = %+v, want fields copied from info", cfg)
	}
	if cfg.DistObjNum != nil {
		t.Errorf("deterministic mode should leave distributions nil")
	}
}

func TestToEngineConfig_ParsesProbabilisticDescriptors(t *testing.T) {
	info := &MorphInfo{
		Probabilistic: true,
		DistHTMLSize:  "Normal(1000,200)",
		DistObjNum:    "Uniform(1,10)",
		DistObjSize:   "Pareto(100,1.5)",
	}
	cfg, err := toEngineConfig(info)
	if err != nil {
		t.Fatalf("toEngineConfig: %v", err)
	}
	if cfg.DistHTMLSize == nil || cfg.DistObjNum == nil || cfg.DistObjSize == nil {
		t.Fatal("expected all three distributions to be parsed")
	}
}

func TestToEngineConfig_RejectsBadDescriptor(t *testing.T) {
	info := &MorphInfo{
		Probabilistic: true,
		DistHTMLSize:  "NotReal(1,2)",
		DistObjNum:    "Uniform(1,10)",
		DistObjSize:   "Uniform(1,10)",
	}
	if _, err := toEngineConfig(info); err == nil {
		t.Fatal("expected error for unknown distribution name")
	}
}
