package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/verte-zerg/stepgoal/internal/model"
)

func TestObserveEdit(t *testing.T) {
	r := NewRecorder()
	r.ObserveEdit(model.FieldSteps, model.PassSteps, 193, 2099)
	r.ObserveEdit(model.FieldAge, model.PassNone, 193, 2050)

	if got := testutil.ToFloat64(r.edits.WithLabelValues("steps")); got != 1 {
		t.Fatalf("expected 1 steps edit, got %v", got)
	}
	if got := testutil.ToFloat64(r.edits.WithLabelValues("age")); got != 1 {
		t.Fatalf("expected 1 age edit, got %v", got)
	}
	if got := testutil.CollectAndCount(r.passes); got != 1 {
		t.Fatalf("expected a single pass series, got %d", got)
	}
	if got := testutil.ToFloat64(r.passes.WithLabelValues("steps")); got != 1 {
		t.Fatalf("expected 1 steps pass, got %v", got)
	}
	if got := testutil.ToFloat64(r.expectedDays); got != 193 {
		t.Fatalf("expected days gauge 193, got %v", got)
	}
	if got := testutil.ToFloat64(r.requiredCalories); got != 2050 {
		t.Fatalf("expected calories gauge 2050, got %v", got)
	}
}

func TestWriteText(t *testing.T) {
	r := NewRecorder()
	r.ObserveEdit(model.FieldDeficit, model.PassDeficit, 43, 2099)

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`stepgoal_edits_total{field="deficit"} 1`,
		`stepgoal_recompute_passes_total{pass="deficit"} 1`,
		"stepgoal_expected_days 43",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
