package metabolic

import (
	"testing"

	"github.com/verte-zerg/stepgoal/internal/model"
)

func TestEstimateMaintenanceCaloriesScenario(t *testing.T) {
	// BMR = 800 + 1093.75 - 150 + 5 = 1748.75; 1748.75 * 1.2 = 2098.5 rounds up.
	p := model.Profile{Age: 30, Gender: model.Male, HeightCm: 175, CurrentWeightKg: 80}
	if got := EstimateMaintenanceCalories(p, model.Sedentary); got != 2099 {
		t.Fatalf("expected 2099 kcal, got %d", got)
	}
}

func TestBMRGenderConstant(t *testing.T) {
	male := model.Profile{Age: 30, Gender: model.Male, HeightCm: 175, CurrentWeightKg: 80}
	female := male
	female.Gender = model.Female
	if got := BMR(male); got != 1748.75 {
		t.Fatalf("male BMR = %v, want 1748.75", got)
	}
	if got := BMR(female); got != 1582.75 {
		t.Fatalf("female BMR = %v, want 1582.75", got)
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		level model.ActivityLevel
		want  float64
	}{
		{model.Sedentary, 1.2},
		{model.Moderate, 1.55},
		{model.Heavy, 1.9},
		{model.ActivityLevel("unknown"), 1.2},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.level); got != tt.want {
			t.Errorf("Multiplier(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEstimateMaintenanceCaloriesActivityLevels(t *testing.T) {
	p := model.Profile{Age: 40, Gender: model.Female, HeightCm: 165, CurrentWeightKg: 70}
	// BMR = 700 + 1031.25 - 200 - 161 = 1370.25
	tests := []struct {
		level model.ActivityLevel
		want  int
	}{
		{model.Sedentary, 1644},
		{model.Moderate, 2124},
		{model.Heavy, 2603},
	}
	for _, tt := range tests {
		if got := EstimateMaintenanceCalories(p, tt.level); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestEstimateMaintenanceCaloriesZeroInputs(t *testing.T) {
	got := EstimateMaintenanceCalories(model.Profile{Gender: model.Male}, model.Sedentary)
	if got != 6 {
		t.Fatalf("expected 6 kcal for an all-zero male profile, got %d", got)
	}
}

func TestEstimateMaintenanceCaloriesMonotonic(t *testing.T) {
	base := model.Profile{Age: 35, Gender: model.Male, HeightCm: 180, CurrentWeightKg: 90}
	for _, level := range model.ActivityLevels {
		ref := EstimateMaintenanceCalories(base, level)

		heavier := base
		heavier.CurrentWeightKg += 5
		if EstimateMaintenanceCalories(heavier, level) <= ref {
			t.Errorf("%s: calories should increase with weight", level)
		}

		taller := base
		taller.HeightCm += 5
		if EstimateMaintenanceCalories(taller, level) <= ref {
			t.Errorf("%s: calories should increase with height", level)
		}

		older := base
		older.Age += 5
		if EstimateMaintenanceCalories(older, level) >= ref {
			t.Errorf("%s: calories should decrease with age", level)
		}

		if EstimateMaintenanceCalories(base, level) != ref {
			t.Errorf("%s: estimate is not deterministic", level)
		}
	}
}
