// Package input converts raw user text into sanitized edits.
//
// Invalid numbers become 0 and unknown enum values fall back to the first
// option, so everything behind this boundary works on total functions.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/stepgoal/internal/model"
)

// Number parses a decimal value. Empty, malformed and non-finite input is 0.
func Number(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Int parses a whole number, truncating any fraction.
func Int(raw string) int {
	return model.Trunc(Number(raw))
}

// Gender parses a gender name; anything unrecognized is male.
func Gender(raw string) model.Gender {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "female", "f":
		return model.Female
	default:
		return model.Male
	}
}

// Activity parses an activity level; anything unrecognized is sedentary.
func Activity(raw string) model.ActivityLevel {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "moderate":
		return model.Moderate
	case "heavy":
		return model.Heavy
	default:
		return model.Sedentary
	}
}

// ParseEdit builds an edit for field from raw text.
func ParseEdit(field model.Field, raw string) model.Edit {
	e := model.Edit{Field: field}
	switch field {
	case model.FieldGender:
		e.Gender = Gender(raw)
	case model.FieldActivity:
		e.Activity = Activity(raw)
	case model.FieldAge:
		e.Number = float64(Int(raw))
	default:
		e.Number = Number(raw)
	}
	return e
}

// ParseAssignment parses "field=value". Only the field name can fail.
func ParseAssignment(s string) (model.Edit, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return model.Edit{}, fmt.Errorf("edit %q must look like field=value", s)
	}
	field, err := model.ParseField(name)
	if err != nil {
		return model.Edit{}, err
	}
	return ParseEdit(field, raw), nil
}

// Format renders a field value the way the input boxes show it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
