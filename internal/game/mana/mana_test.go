package mana

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Mana
	}{
		{"", Mana{}},
		{"0", Mana{}},
		{"3", Mana{Colorless: 3}},
		{"R", Mana{Red: 1}},
		{"2RG", Mana{Colorless: 2, Red: 1, Green: 1}},
		{"WUBRG", Mana{White: 1, Blue: 1, Black: 1, Red: 1, Green: 1}},
		{"UU", Mana{Blue: 2}},
		{"12C", Mana{Colorless: 13}},
		{"*", Mana{Any: 1}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, in := range []string{"X", "R2", "2r"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestAddSubtract(t *testing.T) {
	pool := MustParse("RG").Add(MustParse("2R"))
	if got := pool.String(); got != "2RRG" {
		t.Fatalf("add: got %s", got)
	}

	pool = pool.Subtract(MustParse("1R"))
	want := Mana{Colorless: 1, Red: 1, Green: 1}
	if pool != want {
		t.Fatalf("subtract: got %+v, want %+v", pool, want)
	}

	// Components floor at zero rather than going negative.
	pool = pool.Subtract(MustParse("5GGG"))
	if pool != (Mana{Red: 1}) {
		t.Fatalf("floor: got %+v", pool)
	}
}

func TestContains(t *testing.T) {
	pool := MustParse("2RRG")
	if !pool.Contains(MustParse("1RG")) {
		t.Error("2RRG should contain 1RG")
	}
	if pool.Contains(MustParse("W")) {
		t.Error("2RRG should not contain W")
	}
	if pool.Contains(MustParse("3")) {
		t.Error("Contains compares components literally, not payability")
	}
}

func TestEnough(t *testing.T) {
	cases := []struct {
		pool string
		cost string
		want bool
	}{
		{"RRG", "1RG", true},   // surplus red covers generic
		{"2", "1R", false},     // colorless never pays colored
		{"RR", "RRR", false},   // short one red
		{"WG", "*", true},      // wildcard paid from any surplus
		{"2", "*", true},       // wildcard paid from colorless too
		{"", "*", false},       // empty pool pays nothing
		{"RG", "2", true},      // colored surplus covers generic
		{"R", "2", false},      // not enough total
		{"3UU", "2UU*", true},  // generic plus wildcard from surplus
		{"2UU", "2UU*", false}, // wildcard needs one more
	}
	for _, tc := range cases {
		pool, cost := MustParse(tc.pool), MustParse(tc.cost)
		if got := pool.Enough(cost); got != tc.want {
			t.Errorf("Enough(pool=%q, cost=%q) = %v, want %v", tc.pool, tc.cost, got, tc.want)
		}
	}
}

func TestClear(t *testing.T) {
	pool := MustParse("3WUBRG")
	pool.Clear()
	if !pool.IsEmpty() {
		t.Fatalf("clear: pool not empty: %+v", pool)
	}
}

func TestString(t *testing.T) {
	if got := (Mana{}).String(); got != "0" {
		t.Errorf("empty: got %q", got)
	}
	if got := MustParse("2RRG").String(); got != "2RRG" {
		t.Errorf("round trip: got %q", got)
	}
	if got := (Mana{Any: 2}).String(); got != "**" {
		t.Errorf("wildcard: got %q", got)
	}
}
