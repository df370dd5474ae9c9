package reconcile

import (
	"math"
	"testing"

	"github.com/verte-zerg/stepgoal/internal/model"
)

func scenarioState() model.State {
	p := model.Profile{Age: 30, Gender: model.Male, HeightCm: 175, CurrentWeightKg: 80}
	return New(p, model.Sedentary, 75, 500, 10000)
}

func numberEdit(f model.Field, v float64) model.Edit {
	return model.Edit{Field: f, Number: v}
}

func TestNewRunsDeficitPass(t *testing.T) {
	s := scenarioState()
	if s.Mode != model.DeficitDriven {
		t.Fatalf("expected deficit-driven start, got %s", s.Mode)
	}
	if got := TotalCaloriesToLose(s); got != 38500 {
		t.Fatalf("expected 38500 kcal to lose, got %v", got)
	}
	// 38500 / (500 + 400) = 42.78
	if s.ExpectedDays != 43 {
		t.Fatalf("expected 43 days, got %d", s.ExpectedDays)
	}
}

func TestStepsEditScenario(t *testing.T) {
	s, pass := Reconcile(scenarioState(), numberEdit(model.FieldSteps, 5000))
	if pass != model.PassSteps {
		t.Fatalf("expected steps pass, got %s", pass)
	}
	if s.Mode != model.StepsDriven {
		t.Fatalf("expected steps-driven mode, got %s", s.Mode)
	}
	// 38500 / 200 = 192.5 rounds half away from zero.
	if s.ExpectedDays != 193 {
		t.Fatalf("expected 193 days, got %d", s.ExpectedDays)
	}
	if s.Deficit != 0 {
		t.Fatalf("expected implied deficit 0, got %v", s.Deficit)
	}
	if s.StepsPerDay != 5000 {
		t.Fatalf("steps should keep the edited value, got %v", s.StepsPerDay)
	}
}

func TestDeficitEditHoldsSteps(t *testing.T) {
	tests := []struct {
		deficit float64
		steps   float64
		want    int
	}{
		{500, 10000, 43},
		{0, 10000, 96},
		{-300, 10000, 96},
		{1000, 0, 39},
		{0, 0, 0},
		{-50, 0, 0},
		{250, 2500, 110},
	}
	for _, tt := range tests {
		start := scenarioState()
		start, _ = Reconcile(start, numberEdit(model.FieldSteps, tt.steps))
		s, pass := Reconcile(start, numberEdit(model.FieldDeficit, tt.deficit))
		if pass != model.PassDeficit {
			t.Fatalf("deficit %v: expected deficit pass, got %s", tt.deficit, pass)
		}
		if s.ExpectedDays != tt.want {
			t.Errorf("deficit %v steps %v: got %d days, want %d", tt.deficit, tt.steps, s.ExpectedDays, tt.want)
		}
		if s.StepsPerDay != tt.steps {
			t.Errorf("deficit edit changed steps from %v to %v", tt.steps, s.StepsPerDay)
		}
		if s.Deficit != tt.deficit {
			t.Errorf("deficit edit should keep the entered value %v, got %v", tt.deficit, s.Deficit)
		}
		if s.Mode != model.DeficitDriven {
			t.Errorf("expected deficit-driven mode after deficit edit")
		}
	}
}

func TestDeficitEditMatchesFormula(t *testing.T) {
	for _, d := range []float64{-100, 0, 1, 123, 480, 999.5} {
		s, _ := Reconcile(scenarioState(), numberEdit(model.FieldDeficit, d))
		den := math.Max(d, 0) + s.StepsPerDay*model.CaloriesPerStep
		want := 0
		if den > 0 {
			want = int(math.Round(TotalCaloriesToLose(s) / den))
		}
		if s.ExpectedDays != want {
			t.Errorf("deficit %v: got %d, want %d", d, s.ExpectedDays, want)
		}
	}
}

func TestStepsEditMatchesFormula(t *testing.T) {
	for _, steps := range []float64{1, 777, 5000, 12345, 30000} {
		s, _ := Reconcile(scenarioState(), numberEdit(model.FieldSteps, steps))
		perDay := steps * model.CaloriesPerStep
		estimated := TotalCaloriesToLose(s) / perDay
		if s.ExpectedDays != int(math.Round(estimated)) {
			t.Errorf("steps %v: got %d days, want %d", steps, s.ExpectedDays, int(math.Round(estimated)))
		}
		wantDeficit := math.Round(math.Max(0, TotalCaloriesToLose(s)/estimated-perDay))
		if s.Deficit != wantDeficit {
			t.Errorf("steps %v: got deficit %v, want %v", steps, s.Deficit, wantDeficit)
		}
	}
}

func TestStepsEditZeroStepsKeepsDeficit(t *testing.T) {
	s, _ := Reconcile(scenarioState(), numberEdit(model.FieldSteps, 0))
	if s.ExpectedDays != 0 {
		t.Fatalf("expected 0 days without steps, got %d", s.ExpectedDays)
	}
	if s.Deficit != 500 {
		t.Fatalf("undefined implied deficit must not overwrite 500, got %v", s.Deficit)
	}
}

func TestTinyBurnSaturatesDays(t *testing.T) {
	tests := []struct {
		name  string
		edits []model.Edit
	}{
		{"steps", []model.Edit{numberEdit(model.FieldSteps, 1e-300)}},
		{"subnormal steps", []model.Edit{numberEdit(model.FieldSteps, 1e-320)}},
		{"deficit", []model.Edit{numberEdit(model.FieldSteps, 0), numberEdit(model.FieldDeficit, 1e-300)}},
	}
	for _, tt := range tests {
		s := scenarioState()
		for _, e := range tt.edits {
			s, _ = Reconcile(s, e)
		}
		if s.ExpectedDays != math.MaxInt {
			t.Errorf("%s: expected %d days, got %d", tt.name, math.MaxInt, s.ExpectedDays)
		}
	}
}

func TestAgeEditSaturates(t *testing.T) {
	s, _ := Reconcile(scenarioState(), numberEdit(model.FieldAge, 1e30))
	if s.Profile.Age != math.MaxInt {
		t.Fatalf("expected saturated age, got %d", s.Profile.Age)
	}
	s, _ = Reconcile(s, numberEdit(model.FieldAge, -1e30))
	if s.Profile.Age != math.MinInt {
		t.Fatalf("expected saturated negative age, got %d", s.Profile.Age)
	}
}

func TestStepsEditNoGapKeepsDeficit(t *testing.T) {
	s := scenarioState()
	s, _ = Reconcile(s, numberEdit(model.FieldTargetWeight, 80))
	s, _ = Reconcile(s, numberEdit(model.FieldSteps, 8000))
	if s.ExpectedDays != 0 {
		t.Fatalf("expected 0 days with no gap, got %d", s.ExpectedDays)
	}
	if s.Deficit != 500 {
		t.Fatalf("deficit should be untouched when the estimate is zero, got %v", s.Deficit)
	}
}

func TestWeightEditReplaysActiveMode(t *testing.T) {
	s := scenarioState()
	s, pass := Reconcile(s, numberEdit(model.FieldCurrentWeight, 85))
	if pass != model.PassDeficit {
		t.Fatalf("expected deficit replay, got %s", pass)
	}
	// 77000 / 900 = 85.56
	if s.ExpectedDays != 86 {
		t.Fatalf("expected 86 days, got %d", s.ExpectedDays)
	}
	if s.StepsPerDay != 10000 || s.Deficit != 500 {
		t.Fatalf("deficit replay must not touch inputs: %+v", s)
	}

	s, _ = Reconcile(s, numberEdit(model.FieldSteps, 10000))
	s, pass = Reconcile(s, numberEdit(model.FieldTargetWeight, 70))
	if pass != model.PassSteps {
		t.Fatalf("expected steps replay, got %s", pass)
	}
	// 115500 / 400 = 288.75
	if s.ExpectedDays != 289 {
		t.Fatalf("expected 289 days, got %d", s.ExpectedDays)
	}
	if s.Deficit != 0 {
		t.Fatalf("steps replay should rewrite the deficit, got %v", s.Deficit)
	}
	if s.Mode != model.StepsDriven {
		t.Fatalf("weight edits must not change mode")
	}
}

func TestTargetAboveCurrentWeight(t *testing.T) {
	s, _ := Reconcile(scenarioState(), numberEdit(model.FieldTargetWeight, 82))
	if got := TotalCaloriesToLose(s); got != -15400 {
		t.Fatalf("expected -15400 kcal gap, got %v", got)
	}
	// -15400 / 900 = -17.1
	if s.ExpectedDays != -17 {
		t.Fatalf("expected -17 days, got %d", s.ExpectedDays)
	}
	s, _ = Reconcile(s, numberEdit(model.FieldSteps, 4000))
	if s.Deficit != 0 {
		t.Fatalf("implied deficit must clamp to 0, got %v", s.Deficit)
	}
}

func TestProfileEditsRunNoPass(t *testing.T) {
	start := scenarioState()
	edits := []model.Edit{
		numberEdit(model.FieldAge, 45),
		numberEdit(model.FieldHeight, 160),
		{Field: model.FieldGender, Gender: model.Female},
		{Field: model.FieldActivity, Activity: model.Heavy},
	}
	s := start
	for _, e := range edits {
		var pass model.Pass
		s, pass = Reconcile(s, e)
		if pass != model.PassNone {
			t.Fatalf("%s edit ran %s pass", e.Field, pass)
		}
	}
	if s.ExpectedDays != start.ExpectedDays || s.Deficit != start.Deficit || s.StepsPerDay != start.StepsPerDay {
		t.Fatalf("profile edits changed derived fields: %+v", s)
	}
	if s.Profile.Age != 45 || s.Profile.HeightCm != 160 || s.Profile.Gender != model.Female || s.Activity != model.Heavy {
		t.Fatalf("profile edits not stored: %+v", s)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	edits := []model.Edit{
		numberEdit(model.FieldDeficit, 650),
		numberEdit(model.FieldSteps, 7300),
		numberEdit(model.FieldCurrentWeight, 92.4),
		numberEdit(model.FieldTargetWeight, 71),
		{Field: model.FieldActivity, Activity: model.Moderate},
	}
	for _, e := range edits {
		once, _ := Reconcile(scenarioState(), e)
		twice, _ := Reconcile(once, e)
		if once != twice {
			t.Errorf("%s edit drifted: %+v then %+v", e.Field, once, twice)
		}
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	s := scenarioState()
	before := s
	_, _ = Reconcile(s, numberEdit(model.FieldSteps, 3000))
	if s != before {
		t.Fatalf("Reconcile mutated its input state")
	}
}

func TestDailyBurn(t *testing.T) {
	s := scenarioState()
	if got := DailyBurn(s); got != 900 {
		t.Fatalf("expected 900 kcal/day, got %v", got)
	}
	s.Deficit = -200
	if got := DailyBurn(s); got != 400 {
		t.Fatalf("negative deficit should not count, got %v", got)
	}
}
