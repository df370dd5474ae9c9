// Package session owns the calculator state and applies edits in order.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/stepgoal/internal/input"
	"github.com/verte-zerg/stepgoal/internal/metabolic"
	"github.com/verte-zerg/stepgoal/internal/metrics"
	"github.com/verte-zerg/stepgoal/internal/model"
	"github.com/verte-zerg/stepgoal/internal/reconcile"
	"github.com/verte-zerg/stepgoal/internal/store"
)

const (
	// DefaultDateLayout renders target dates like "Mar 5, 2026".
	DefaultDateLayout = "Jan 2, 2006"
	// NoDate is shown when there is no future target date.
	NoDate = "-"
	// NeverDate is shown when the target date is past MaxDateDays.
	NeverDate = "never"
	// MaxDateDays is the furthest target date that is still rendered,
	// about ten thousand years.
	MaxDateDays = 3_650_000
)

// DefaultConfig returns the values a session starts from without a config file.
func DefaultConfig() model.Config {
	return model.Config{
		Age:             30,
		Gender:          model.Male,
		Activity:        model.Sedentary,
		HeightCm:        175,
		CurrentWeightKg: 80,
		TargetWeightKg:  75,
		Deficit:         0,
		StepsPerDay:     10000,
		DateLayout:      DefaultDateLayout,
	}
}

// InitialState builds the reconciled start state for cfg.
func InitialState(cfg model.Config) model.State {
	p := model.Profile{
		Age:             cfg.Age,
		Gender:          cfg.Gender,
		HeightCm:        cfg.HeightCm,
		CurrentWeightKg: cfg.CurrentWeightKg,
	}
	return reconcile.New(p, cfg.Activity, cfg.TargetWeightKg, cfg.Deficit, cfg.StepsPerDay)
}

// Outputs are the derived values shown to the user.
type Outputs struct {
	RequiredCalories    int     `json:"required_calories"`
	ExpectedDays        int     `json:"expected_days"`
	TotalCaloriesToLose float64 `json:"total_calories_to_lose"`
	TargetDateLabel     string  `json:"target_date"`
}

// Session is not safe for concurrent use; the owner serializes edits.
type Session struct {
	id       string
	state    model.State
	journal  *store.Store
	recorder *metrics.Recorder
	log      *zap.Logger
	now      func() time.Time
	layout   string
}

// Option configures a Session.
type Option func(*Session)

// WithJournal records every edit so it can be undone.
func WithJournal(st *store.Store) Option {
	return func(s *Session) { s.journal = st }
}

// WithRecorder counts edits and passes.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for target dates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDateLayout sets the Go time layout of the target date label.
func WithDateLayout(layout string) Option {
	return func(s *Session) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// New starts a session from an already reconciled state.
func New(state model.State, opts ...Option) *Session {
	s := &Session{
		id:     store.NewSessionID(),
		state:  state,
		log:    zap.NewNop(),
		now:    time.Now,
		layout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the journal session id.
func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() model.State {
	return s.state
}

// Apply reconciles one edit. The state is updated even when recording the
// edit in the journal fails; the error is returned for display.
func (s *Session) Apply(ctx context.Context, e model.Edit) (model.Pass, error) {
	before := s.state
	after, pass := reconcile.Reconcile(before, e)
	s.state = after

	out := s.Outputs()
	if s.recorder != nil {
		s.recorder.ObserveEdit(e.Field, pass, out.ExpectedDays, out.RequiredCalories)
	}
	s.log.Debug("edit applied",
		zap.String("field", e.Field.String()),
		zap.String("value", e.Value()),
		zap.Stringer("pass", pass),
		zap.Stringer("mode", after.Mode),
		zap.Int("expected_days", after.ExpectedDays),
		zap.Float64("deficit", after.Deficit),
	)

	if s.journal == nil {
		return pass, nil
	}
	_, err := s.journal.Append(ctx, store.Entry{
		SessionID: s.id,
		AppliedAt: s.now(),
		Field:     e.Field.String(),
		Value:     e.Value(),
		Pass:      pass.String(),
		Mode:      after.Mode.String(),
		Before:    before,
		After:     after,
	})
	if err != nil {
		s.log.Warn("journal append failed", zap.Error(err))
		return pass, fmt.Errorf("record edit: %w", err)
	}
	return pass, nil
}

// ApplyRaw sanitizes raw text for field and applies it.
func (s *Session) ApplyRaw(ctx context.Context, field model.Field, raw string) (model.Pass, error) {
	return s.Apply(ctx, input.ParseEdit(field, raw))
}

// Undo restores the state before the most recent edit. It reports false
// when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	if s.journal == nil {
		return false, nil
	}
	entry, err := s.journal.PopLast(ctx, s.id)
	if err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}
	if entry == nil {
		return false, nil
	}
	s.state = entry.Before
	s.log.Debug("edit undone",
		zap.String("field", entry.Field),
		zap.String("value", entry.Value),
		zap.Int("expected_days", s.state.ExpectedDays),
	)
	return true, nil
}

// History returns this session's journal, oldest first.
func (s *Session) History(ctx context.Context) ([]store.Entry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, s.id)
}

// EditCount returns how many edits of this session are journaled.
func (s *Session) EditCount(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	return s.journal.Count(ctx, s.id)
}

// Outputs derives the displayed values from the current state.
func (s *Session) Outputs() Outputs {
	return Outputs{
		RequiredCalories:    metabolic.EstimateMaintenanceCalories(s.state.Profile, s.state.Activity),
		ExpectedDays:        s.state.ExpectedDays,
		TotalCaloriesToLose: reconcile.TotalCaloriesToLose(s.state),
		TargetDateLabel:     TargetDateLabel(s.now(), s.state.ExpectedDays, s.layout),
	}
}

// Now returns the session clock reading.
func (s *Session) Now() time.Time {
	return s.now()
}

// TargetDateLabel formats now + days, or NoDate when days is not positive.
func TargetDateLabel(now time.Time, days int, layout string) string {
	if days <= 0 {
		return NoDate
	}
	if days > MaxDateDays {
		return NeverDate
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return now.AddDate(0, 0, days).Format(layout)
}
