package timetable_test

import (
	"testing"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/timetable"
)

func slot(subjectID string, day, period int, week timetable.WeekType) timetable.Slot {
	return timetable.Slot{ID: subjectID + "-slot", SubjectID: subjectID, DayOfWeek: day, Period: period, WeekType: week}
}

func lessonIDs(r timetable.Resolution) []string {
	ids := make([]string, 0, len(r.Lessons))
	for _, l := range r.Lessons {
		ids = append(ids, l.SubjectID+"@"+l.PeriodLabel)
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestResolve tests lesson resolution against week type and weekday.
func TestResolve(t *testing.T) {
	abSystem := &timetable.WeekSystem{Enabled: true, ReferenceDate: reference}
	slots := []timetable.Slot{
		slot("math", 0, 1, timetable.WeekNone),
		slot("math", 0, 2, timetable.WeekNone),
		slot("german", 0, 3, timetable.WeekA),
		slot("german", 0, 4, timetable.WeekA),
		slot("english", 0, 3, timetable.WeekB),
		slot("english", 0, 4, timetable.WeekB),
		slot("math", 2, 5, timetable.WeekNone),
	}

	tests := []struct {
		name       string
		date       string
		slots      []timetable.Slot
		settings   *timetable.WeekSystem
		wantReason timetable.Reason
		wantWeek   timetable.WeekType
		want       []string
	}{
		{
			name: "rotation off shows only unrestricted slots", date: "2024-09-02", slots: slots,
			wantReason: timetable.ReasonScheduled, wantWeek: timetable.WeekNone,
			want: []string{"math@1./2."},
		},
		{
			name: "A week", date: "2024-09-02", slots: slots, settings: abSystem,
			wantReason: timetable.ReasonScheduled, wantWeek: timetable.WeekA,
			want: []string{"german@3./4."},
		},
		{
			name: "B week", date: "2024-09-09", slots: slots, settings: abSystem,
			wantReason: timetable.ReasonScheduled, wantWeek: timetable.WeekB,
			want: []string{"english@3./4."},
		},
		{
			name: "weekend", date: "2024-09-07", slots: slots,
			wantReason: timetable.ReasonWeekend, want: []string{},
		},
		{
			name: "weekend still reports week type", date: "2024-09-14", slots: slots, settings: abSystem,
			wantReason: timetable.ReasonWeekend, wantWeek: timetable.WeekB, want: []string{},
		},
		{
			name: "no slots at all", date: "2024-09-03",
			wantReason: timetable.ReasonNoSchedule, want: []string{},
		},
		{
			name: "nothing on this weekday", date: "2024-09-03", slots: slots,
			wantReason: timetable.ReasonFreeDay, want: []string{},
		},
		{
			name: "A-week day with only B lessons", date: "2024-09-04", settings: abSystem,
			slots:      []timetable.Slot{slot("math", 2, 1, timetable.WeekB)},
			wantReason: timetable.ReasonFreeDay, wantWeek: timetable.WeekA, want: []string{},
		},
		{
			name: "enabled without reference behaves as off", date: "2024-09-02", slots: slots,
			settings:   &timetable.WeekSystem{Enabled: true},
			wantReason: timetable.ReasonScheduled, wantWeek: timetable.WeekNone,
			want: []string{"math@1./2."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timetable.Resolve(calendar.MustParse(tt.date), tt.slots, tt.settings)
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %s, want %s", got.Reason, tt.wantReason)
			}
			if got.WeekType != tt.wantWeek {
				t.Errorf("WeekType = %q, want %q", got.WeekType, tt.wantWeek)
			}
			if ids := lessonIDs(got); !equal(ids, tt.want) {
				t.Errorf("lessons = %v, want %v", ids, tt.want)
			}
		})
	}
}

// TestResolve_OrdersAndDeduplicates tests sorting by first period and per-pair dedupe.
func TestResolve_OrdersAndDeduplicates(t *testing.T) {
	slots := []timetable.Slot{
		slot("english", 1, 8, timetable.WeekNone),
		slot("math", 1, 4, timetable.WeekNone),
		slot("german", 1, 3, timetable.WeekNone),
		slot("math", 1, 3, timetable.WeekNone),
		slot("english", 1, 7, timetable.WeekNone),
		slot("math", 1, 99, timetable.WeekNone),
	}
	got := timetable.Resolve(calendar.MustParse("2024-09-03"), slots, nil)

	want := []string{"math@3./4.", "german@3./4.", "english@7./8."}
	if ids := lessonIDs(got); !equal(ids, want) {
		t.Errorf("lessons = %v, want %v", ids, want)
	}
	if got.Lessons[0].FirstPeriod != 3 || got.Lessons[2].FirstPeriod != 7 {
		t.Errorf("first periods = %+v", got.Lessons)
	}
}

// TestResolution_KeepSubjects tests removal of lessons for deleted subjects.
func TestResolution_KeepSubjects(t *testing.T) {
	slots := []timetable.Slot{slot("math", 0, 1, timetable.WeekNone), slot("ghost", 0, 3, timetable.WeekNone)}
	res := timetable.Resolve(calendar.MustParse("2024-09-02"), slots, nil)

	kept := res.KeepSubjects(func(id string) bool { return id == "math" })
	if kept.Reason != timetable.ReasonScheduled || len(kept.Lessons) != 1 {
		t.Errorf("kept = %+v", kept)
	}
	if len(res.Lessons) != 2 {
		t.Errorf("input resolution mutated: %+v", res.Lessons)
	}

	none := res.KeepSubjects(func(string) bool { return false })
	if none.Reason != timetable.ReasonSubjectsMissing || len(none.Lessons) != 0 {
		t.Errorf("none = %+v", none)
	}

	weekend := timetable.Resolve(calendar.MustParse("2024-09-07"), slots, nil).KeepSubjects(func(string) bool { return false })
	if weekend.Reason != timetable.ReasonWeekend {
		t.Errorf("weekend reason = %s", weekend.Reason)
	}
}
