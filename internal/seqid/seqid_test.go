package seqid

import (
	"reflect"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"swissprot pipe form", "sp|P84875|PCPI_SABMA", "P84875"},
		{"trembl pipe form", "tr|A0A023GPI8|A0A023GPI8_CANBL", "A0A023GPI8"},
		{"range suffix", "APLP2_HUMAN/309-361", "APLP2_HUMAN"},
		{"bare accession", "P12345", "P12345"},
		{"bare entry name", "BPT1_BOVIN", "BPT1_BOVIN"},
		{"pipe form with range", "sp|P00974|BPT1_BOVIN/36-89", "P00974"},
		{"unrecognized database tag", "xx|P12345|NAME", "xx|P12345|NAME"},
		{"pdb chain form", "pdb|3TGI|I", "3TGI"},
		{"empty accession field", "sp||NAME", ""},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.raw); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	raws := []string{
		"sp|P84875|PCPI_SABMA",
		"APLP2_HUMAN/309-361",
		"P12345",
		"xx|P12345|NAME",
	}
	for _, raw := range raws {
		once := Canonical(raw)
		if twice := Canonical(once); twice != once {
			t.Errorf("Canonical(Canonical(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet("a", "b", "c")
	b := NewSet("b", "c", "d")

	if got, want := a.Union(b).Sorted(), []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got, want := a.Intersect(b).Sorted(), []string{"b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got, want := a.Subtract(b).Sorted(), []string{"a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Subtract = %v, want %v", got, want)
	}
	if got, want := b.Subtract(a).Sorted(), []string{"d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Subtract = %v, want %v", got, want)
	}
}

func TestSetUnionDoesNotMutate(t *testing.T) {
	a := NewSet("a")
	b := NewSet("b")
	_ = a.Union(b)
	if len(a) != 1 || len(b) != 1 {
		t.Errorf("Union mutated its operands: len(a)=%d len(b)=%d, want 1 and 1", len(a), len(b))
	}
}

func TestSetEmpty(t *testing.T) {
	empty := NewSet()
	other := NewSet("x")

	if got := empty.Intersect(other); len(got) != 0 {
		t.Errorf("empty.Intersect = %v, want empty", got.Sorted())
	}
	if got := empty.Union(other).Sorted(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("empty.Union = %v, want [x]", got)
	}
	if got := empty.Sorted(); len(got) != 0 {
		t.Errorf("empty.Sorted = %v, want empty slice", got)
	}
	if empty.Has("x") {
		t.Error("empty.Has(x) = true, want false")
	}
}
