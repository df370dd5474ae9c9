package model

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{192.5, 193},
		{192.49, 192},
		{-192.5, -193},
		{-0.5, -1},
		{0.5, 1},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt},
		{math.Inf(-1), math.MinInt},
		{1e300, math.MaxInt},
		{-1e300, math.MinInt},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTrunc(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{30.9, 30},
		{-30.9, -30},
		{math.NaN(), 0},
		{1e30, math.MaxInt},
		{-1e30, math.MinInt},
	}
	for _, tt := range tests {
		if got := Trunc(tt.in); got != tt.want {
			t.Errorf("Trunc(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		want Field
	}{
		{"deficit", FieldDeficit},
		{" Steps ", FieldSteps},
		{"current_weight", FieldCurrentWeight},
		{"weight", FieldCurrentWeight},
		{"target", FieldTargetWeight},
		{"sex", FieldGender},
		{"activity", FieldActivity},
	}
	for _, tt := range tests {
		got, err := ParseField(tt.name)
		if err != nil {
			t.Fatalf("ParseField(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseField(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, err := ParseField("bmi"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
