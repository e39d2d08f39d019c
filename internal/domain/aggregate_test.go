package domain

import (
	"slices"
	"testing"
)

func TestSplitAggregate(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"Colosseum", []string{"Colosseum"}},
		{" Colosseum , Forum,, ,Pantheon ", []string{"Colosseum", "Forum", "Pantheon"}},
	}

	for _, tc := range cases {
		got := SplitAggregate(tc.in)
		if !slices.Equal(got, tc.want) {
			t.Errorf("SplitAggregate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAggregateRoundTrip(t *testing.T) {
	tokens := []string{" Uffizi", "Duomo ", "", "Uffizi", "Ponte Vecchio"}

	joined := JoinAggregate(tokens)
	if joined != "Uffizi,Duomo,Ponte Vecchio" {
		t.Fatalf("joined = %q", joined)
	}

	got := SplitAggregate(joined)
	want := UnionTokens(tokens)
	if !slices.Equal(got, want) {
		t.Fatalf("round trip = %q, want %q", got, want)
	}
}

func TestUnionTokensKeepsFirstOccurrence(t *testing.T) {
	got := UnionTokens([]string{"b", "a"}, []string{"a", "c", " b "})
	want := []string{"b", "a", "c"}
	if !slices.Equal(got, want) {
		t.Fatalf("union = %q, want %q", got, want)
	}
}

func TestParseOverlayKind(t *testing.T) {
	for _, k := range OverlayKinds {
		got, err := ParseOverlayKind(k.String())
		if err != nil {
			t.Fatalf("parse %q: %v", k, err)
		}
		if got != k {
			t.Fatalf("parse %q = %v", k, got)
		}
	}

	if _, err := ParseOverlayKind("weather"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNewDestinationDefaults(t *testing.T) {
	d := NewDestination("Rome")
	if d.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if d.Nights != 1 {
		t.Fatalf("nights = %d, want 1", d.Nights)
	}

	d.AutoSightseeing = []string{"Forum"}
	c := d.Clone()
	c.AutoSightseeing[0] = "Pantheon"
	if d.AutoSightseeing[0] != "Forum" {
		t.Fatal("clone shares backing array with original")
	}
}
