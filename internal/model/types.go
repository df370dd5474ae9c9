// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
)

const (
	// CaloriesPerKg is the energy content of one kilogram of body mass.
	CaloriesPerKg = 7700.0
	// CaloriesPerStep is the energy burned by a single step.
	CaloriesPerStep = 0.04
)

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ActivityLevel selects the maintenance multiplier.
type ActivityLevel string

const (
	Sedentary ActivityLevel = "sedentary"
	Moderate  ActivityLevel = "moderate"
	Heavy     ActivityLevel = "heavy"
)

// Genders lists the selectable genders in display order.
var Genders = []Gender{Male, Female}

// ActivityLevels lists the selectable activity levels in display order.
var ActivityLevels = []ActivityLevel{Sedentary, Moderate, Heavy}

// Profile holds the biometric inputs of the basal metabolic rate.
type Profile struct {
	Age             int
	Gender          Gender
	HeightCm        float64
	CurrentWeightKg float64
}

// Field names one editable input.
type Field int

const (
	FieldAge Field = iota
	FieldGender
	FieldActivity
	FieldHeight
	FieldCurrentWeight
	FieldTargetWeight
	FieldDeficit
	FieldSteps
)

// Fields lists every editable field in display order.
var Fields = []Field{
	FieldAge,
	FieldGender,
	FieldActivity,
	FieldHeight,
	FieldCurrentWeight,
	FieldTargetWeight,
	FieldDeficit,
	FieldSteps,
}

var fieldNames = map[Field]string{
	FieldAge:           "age",
	FieldGender:        "gender",
	FieldActivity:      "activity",
	FieldHeight:        "height",
	FieldCurrentWeight: "current-weight",
	FieldTargetWeight:  "target-weight",
	FieldDeficit:       "deficit",
	FieldSteps:         "steps",
}

// Short aliases accepted on the command line.
var fieldAliases = map[string]Field{
	"weight": FieldCurrentWeight,
	"target": FieldTargetWeight,
	"sex":    FieldGender,
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Numeric reports whether the field holds a number rather than an enum.
func (f Field) Numeric() bool {
	return f != FieldGender && f != FieldActivity
}

// ParseField resolves a field name or alias.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, "_", "-")
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	if f, ok := fieldAliases[name]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

// Edit is a single sanitized user edit. Number is used by numeric fields,
// Gender and Activity by the enum fields.
type Edit struct {
	Field    Field
	Number   float64
	Gender   Gender
	Activity ActivityLevel
}

// Value renders the edited value for logs and the journal.
func (e Edit) Value() string {
	switch e.Field {
	case FieldGender:
		return string(e.Gender)
	case FieldActivity:
		return string(e.Activity)
	default:
		return fmt.Sprintf("%g", e.Number)
	}
}

// Mode records which manually edited field governs the day estimate.
type Mode int

const (
	DeficitDriven Mode = iota
	StepsDriven
)

func (m Mode) String() string {
	if m == StepsDriven {
		return "steps-driven"
	}
	return "deficit-driven"
}

// Pass identifies the recompute that ran for an edit.
type Pass int

const (
	PassNone Pass = iota
	PassDeficit
	PassSteps
)

func (p Pass) String() string {
	switch p {
	case PassDeficit:
		return "deficit"
	case PassSteps:
		return "steps"
	default:
		return "none"
	}
}

// State is the whole calculator session.
type State struct {
	Profile        Profile       `json:"profile"`
	Activity       ActivityLevel `json:"activity"`
	TargetWeightKg float64       `json:"target_weight_kg"`
	Deficit        float64       `json:"deficit"`
	StepsPerDay    float64       `json:"steps_per_day"`
	ExpectedDays   int           `json:"expected_days"`
	Mode           Mode          `json:"mode"`
}

// Config defines the calculator defaults a session starts from.
type Config struct {
	Age             int
	Gender          Gender
	Activity        ActivityLevel
	HeightCm        float64
	CurrentWeightKg float64
	TargetWeightKg  float64
	Deficit         float64
	StepsPerDay     float64
	DateLayout      string
}

// Round rounds half away from zero. NaN rounds to 0; values outside the
// int range, infinities included, saturate at math.MaxInt or math.MinInt.
func Round(x float64) int {
	return clampInt(math.Round(x))
}

// Trunc drops the fraction of x with the same NaN and range handling as Round.
func Trunc(x float64) int {
	return clampInt(math.Trunc(x))
}

func clampInt(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt:
		return math.MaxInt
	case x <= math.MinInt:
		return math.MinInt
	}
	return int(x)
}
