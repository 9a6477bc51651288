package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("email", "x@y.z", v)
	if _, ok := v["name"]; !ok {
		t.Fatal("blank value should violate")
	}
	if _, ok := v["email"]; ok {
		t.Fatal("filled value should pass")
	}
}

func TestEmail(t *testing.T) {
	v := Violations{}
	Email("a", "not-an-email", v)
	Email("b", "ok@example.com", v)
	Email("c", "", v) // emptiness is Required's concern
	if v["a"] != "invalid_email" {
		t.Fatalf("expected invalid_email, got %q", v["a"])
	}
	if len(v) != 1 {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestNumericValidators(t *testing.T) {
	v := Violations{}
	PositiveFloat("p0", 0, v)
	PositiveFloat("p1", 1.5, v)
	NonNegativeFloat("n0", -0.1, v)
	NonNegativeFloat("n1", 0, v)
	MinInt("m0", 0, 1, v)
	MinInt("m1", 1, 1, v)
	RangeInt("r0", 6, 1, 5, v)
	RangeInt("r1", 5, 1, 5, v)
	for _, bad := range []string{"p0", "n0", "m0", "r0"} {
		if _, ok := v[bad]; !ok {
			t.Fatalf("expected violation for %s", bad)
		}
	}
	for _, good := range []string{"p1", "n1", "m1", "r1"} {
		if _, ok := v[good]; ok {
			t.Fatalf("unexpected violation for %s", good)
		}
	}
}
