package input

import (
	"math"
	"testing"

	"github.com/verte-zerg/stepgoal/internal/model"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"42", 42},
		{" 7.5 ", 7.5},
		{"-300", -300},
		{"abc", 0},
		{"12kg", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		if got := Number(tt.raw); got != tt.want {
			t.Errorf("Number(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInt(t *testing.T) {
	if got := Int("30.9"); got != 30 {
		t.Fatalf("Int(30.9) = %d, want 30", got)
	}
	if got := Int("x"); got != 0 {
		t.Fatalf("Int(x) = %d, want 0", got)
	}
	if got := Int("1e30"); got != math.MaxInt {
		t.Fatalf("Int(1e30) = %d, want MaxInt", got)
	}
	if got := Int("-1e30"); got != math.MinInt {
		t.Fatalf("Int(-1e30) = %d, want MinInt", got)
	}
}

func TestEnums(t *testing.T) {
	if Gender("Female") != model.Female || Gender("f") != model.Female {
		t.Fatalf("expected female")
	}
	if Gender("") != model.Male || Gender("other") != model.Male {
		t.Fatalf("unknown gender should default to male")
	}
	if Activity("HEAVY") != model.Heavy || Activity("moderate") != model.Moderate {
		t.Fatalf("activity levels not parsed")
	}
	if Activity("") != model.Sedentary {
		t.Fatalf("unknown activity should default to sedentary")
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in   string
		want model.Edit
	}{
		{"steps=5000", model.Edit{Field: model.FieldSteps, Number: 5000}},
		{"deficit=oops", model.Edit{Field: model.FieldDeficit, Number: 0}},
		{"weight=81.5", model.Edit{Field: model.FieldCurrentWeight, Number: 81.5}},
		{"target_weight=70", model.Edit{Field: model.FieldTargetWeight, Number: 70}},
		{"age=29.7", model.Edit{Field: model.FieldAge, Number: 29}},
		{"gender=female", model.Edit{Field: model.FieldGender, Gender: model.Female}},
		{"activity=moderate", model.Edit{Field: model.FieldActivity, Activity: model.Moderate}},
	}
	for _, tt := range tests {
		got, err := ParseAssignment(tt.in)
		if err != nil {
			t.Fatalf("ParseAssignment(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAssignment(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseAssignmentErrors(t *testing.T) {
	for _, in := range []string{"steps", "bmi=20", "=3"} {
		if _, err := ParseAssignment(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(10000); got != "10000" {
		t.Fatalf("Format(10000) = %q", got)
	}
	if got := Format(72.5); got != "72.5" {
		t.Fatalf("Format(72.5) = %q", got)
	}
}
