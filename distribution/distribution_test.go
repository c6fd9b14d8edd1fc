package distribution

import "testing"

func TestParse_Uniform(t *testing.T) {
	d, err := Parse("Uniform(200, 4000)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.kind != KindUniform {
		t.Errorf("kind = %v, want KindUniform", d.kind)
	}
	if len(d.params) != 2 || d.params[0] != 200 || d.params[1] != 4000 {
		t.Errorf("params = %v, want [200 4000]", d.params)
	}
}

func TestParse_Joint(t *testing.T) {
	d, err := Parse("Joint(Normal(5000,800); Normal(2000,400))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !d.IsJoint() {
		t.Fatalf("expected joint distribution")
	}
	if d.A.kind != KindNormal || d.B.kind != KindNormal {
		t.Errorf("A/B kinds = %v / %v, want Normal/Normal", d.A.kind, d.B.kind)
	}
	if d.A.params[0] != 5000 || d.B.params[0] != 2000 {
		t.Errorf("A/B mus = %v / %v", d.A.params, d.B.params)
	}
}

func TestParse_BadDescriptor(t *testing.T) {
	tests := []string{
		"",
		"Bogus(1,2)",
		"Uniform(1)",
		"Normal(1,2,3)",
		"Uniform(1,foo)",
		"Joint(Normal(1,2))",
	}
	for _, descriptor := range tests {
		if _, err := Parse(descriptor); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", descriptor)
		}
	}
}

func TestSplitTop_NestedParens(t *testing.T) {
	parts := splitTop("Normal(5000,800); Normal(2000,400)", ';')
	if len(parts) != 2 {
		t.Fatalf("splitTop returned %d parts, want 2: %v", len(parts), parts)
	}
}

func TestKindFor_CaseInsensitive(t *testing.T) {
	kind, n, err := kindFor("uniform")
	if err != nil {
		t.Fatalf("kindFor: %v", err)
	}
	if kind != KindUniform || n != 2 {
		t.Errorf("kindFor(uniform) = (%v, %d), want (KindUniform, 2)", kind, n)
	}
}
