package schedule

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
)

func intPtr(v int) *int { return &v }

func validPayload() *SavePayload {
	return &SavePayload{
		Mode: string(ModeRecurring),
		Recurring: &RecurringPayload{
			Settings: RecurringSettingsPayload{
				IntervalMinutes: 30,
				BufferMinutes:   10,
				NoEndDate:       true,
				Enabled:         true,
				RecurringActive: true,
			},
			Days: map[string][]WindowPayload{
				"segunda-feira": {{Start: "08:00", End: "12:00"}},
				"WEDNESDAY":     {{Start: "14:00", End: "18:00"}},
			},
		},
	}
}

func TestBuildDefinitionsValid(t *testing.T) {
	doctorID := uuid.New()
	defs, mode, err := validPayload().BuildDefinitions(doctorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != ModeRecurring {
		t.Errorf("expected mode RECURRING, got %s", mode)
	}
	if len(defs.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(defs.Rules))
	}
	// Rules come back ordered by canonical weekday name.
	if defs.Rules[0].Weekday != Monday {
		t.Errorf("expected first rule MONDAY, got %s", defs.Rules[0].Weekday)
	}
	if defs.RecurringSettings == nil || defs.RecurringSettings.IntervalMinutes != 30 {
		t.Errorf("recurring settings not carried over: %+v", defs.RecurringSettings)
	}
}

func TestBuildDefinitionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *SavePayload)
		wantCode string
	}{
		{
			name:     "bad mode",
			mutate:   func(p *SavePayload) { p.Mode = "WEEKLY" },
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "unknown weekday",
			mutate: func(p *SavePayload) {
				p.Recurring.Days["someday"] = []WindowPayload{{Start: "08:00", End: "09:00"}}
			},
			wantCode: "INVALID_WEEKDAY",
		},
		{
			name: "zero interval",
			mutate: func(p *SavePayload) {
				p.Recurring.Settings.IntervalMinutes = 0
			},
			wantCode: "INVALID_INTERVAL",
		},
		{
			name: "negative buffer",
			mutate: func(p *SavePayload) {
				p.Recurring.Settings.BufferMinutes = -5
			},
			wantCode: "INVALID_BUFFER",
		},
		{
			name: "end date with no_end_date",
			mutate: func(p *SavePayload) {
				p.Recurring.Settings.EndDate = "2026-10-01"
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "end before start",
			mutate: func(p *SavePayload) {
				p.Recurring.Settings.NoEndDate = false
				p.Recurring.Settings.StartDate = "2026-10-01"
				p.Recurring.Settings.EndDate = "2026-09-01"
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "inverted window",
			mutate: func(p *SavePayload) {
				p.Recurring.Days["MONDAY"] = []WindowPayload{{Start: "12:00", End: "08:00"}}
			},
			wantCode: "INVALID_TIME_RANGE",
		},
		{
			name: "overlapping windows",
			mutate: func(p *SavePayload) {
				p.Recurring.Days["MONDAY"] = []WindowPayload{
					{Start: "08:00", End: "12:00"},
					{Start: "11:00", End: "14:00"},
				}
			},
			wantCode: "WINDOW_OVERLAP",
		},
		{
			name: "bad clock format",
			mutate: func(p *SavePayload) {
				p.Recurring.Days["MONDAY"] = []WindowPayload{{Start: "8:00", End: "12:00"}}
			},
			wantCode: "INVALID_TIME_FORMAT",
		},
		{
			name: "window interval override zero",
			mutate: func(p *SavePayload) {
				p.Recurring.Days["MONDAY"] = []WindowPayload{
					{Start: "08:00", End: "12:00", IntervalMinutes: intPtr(0)},
				}
			},
			wantCode: "INVALID_INTERVAL",
		},
		{
			name: "specific days without settings",
			mutate: func(p *SavePayload) {
				p.Specific = &SpecificPayload{
					Days: map[string][]WindowPayload{
						"2026-09-15": {{Start: "08:00", End: "10:00"}},
					},
				}
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "bad specific date",
			mutate: func(p *SavePayload) {
				p.Specific = &SpecificPayload{
					Settings: &SpecificSettingsPayload{IntervalMinutes: 30},
					Days: map[string][]WindowPayload{
						"15/09/2026": {{Start: "08:00", End: "10:00"}},
					},
				}
			},
			wantCode: "INVALID_DATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			_, _, err := p.BuildDefinitions(uuid.New())
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := apperror.AsError(err)
			if !ok {
				t.Fatalf("expected apperror, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestBuildDefinitionsSortsWindows(t *testing.T) {
	p := validPayload()
	p.Recurring.Days = map[string][]WindowPayload{
		"MONDAY": {
			{Start: "14:00", End: "18:00"},
			{Start: "08:00", End: "12:00"},
		},
	}
	defs, _, err := p.BuildDefinitions(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	windows := defs.Rules[0].Windows
	if windows[0].Start != "08:00" || windows[1].Start != "14:00" {
		t.Errorf("windows not sorted: %v, %v", windows[0].Start, windows[1].Start)
	}
}
