package timetable

import (
	"sort"

	"classlog/internal/domain/calendar"
)

// Reason explains why a resolved day has the lessons it has.
type Reason string

// Resolution reasons. Every reason except ReasonScheduled comes with an empty lesson list.
const (
	ReasonScheduled       Reason = "scheduled"
	ReasonWeekend         Reason = "weekend"
	ReasonNoSchedule      Reason = "no_schedule"
	ReasonFreeDay         Reason = "free_day"
	ReasonSubjectsMissing Reason = "subjects_missing"
)

// doublePeriodLabels pairs each single period with the label of its double period.
var doublePeriodLabels = map[int]string{
	1: "1./2.", 2: "1./2.",
	3: "3./4.", 4: "3./4.",
	5: "5./6.", 6: "5./6.",
	7: "7./8.", 8: "7./8.",
	9: "9./10.", 10: "9./10.",
}

// DoublePeriodLabel returns the display label of the double period containing period.
func DoublePeriodLabel(period int) (string, bool) {
	label, ok := doublePeriodLabels[period]
	return label, ok
}

// PairStart returns the odd first period of the double period containing period.
func PairStart(period int) int {
	if period%2 == 0 {
		return period - 1
	}
	return period
}

// DoublePeriods lists the addressable double periods as [first, second] pairs.
func DoublePeriods() [][2]int {
	return [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}
}

// Lesson is one resolved schedule cell: a subject taught in a double period.
type Lesson struct {
	SubjectID   string
	PeriodLabel string
	FirstPeriod int
}

// Resolution is the outcome of resolving a date against the schedule.
type Resolution struct {
	Date     calendar.Day
	DayIndex int
	WeekType WeekType // WeekNone when the rotation is off
	Reason   Reason
	Lessons  []Lesson
}

// Resolve computes the ordered, deduplicated lessons taught on date.
// PRE: slots may be empty; settings may be nil (rotation off)
// POST: lessons are unique per (SubjectID, PeriodLabel) and sorted by FirstPeriod;
// first-seen order is kept within the same double period
func Resolve(date calendar.Day, slots []Slot, settings *WeekSystem) Resolution {
	res := Resolution{Date: date, DayIndex: DayIndex(date), Reason: ReasonScheduled}
	if settings.Active() {
		res.WeekType = WeekTypeFor(date, settings.ReferenceDate)
	}

	if res.DayIndex == Weekend {
		res.Reason = ReasonWeekend
		return res
	}
	if len(slots) == 0 {
		res.Reason = ReasonNoSchedule
		return res
	}

	type key struct {
		subjectID string
		label     string
	}
	seen := make(map[key]bool)
	for _, s := range slots {
		if s.DayOfWeek != res.DayIndex || s.WeekType != res.WeekType {
			continue
		}
		label, ok := DoublePeriodLabel(s.Period)
		if !ok {
			continue
		}
		k := key{subjectID: s.SubjectID, label: label}
		if seen[k] {
			continue
		}
		seen[k] = true
		res.Lessons = append(res.Lessons, Lesson{
			SubjectID:   s.SubjectID,
			PeriodLabel: label,
			FirstPeriod: PairStart(s.Period),
		})
	}

	sort.SliceStable(res.Lessons, func(i, j int) bool {
		return res.Lessons[i].FirstPeriod < res.Lessons[j].FirstPeriod
	})

	if len(res.Lessons) == 0 {
		res.Reason = ReasonFreeDay
	}
	return res
}

// KeepSubjects drops lessons whose subject no longer exists.
// A resolution that loses every lesson this way reports ReasonSubjectsMissing.
func (r Resolution) KeepSubjects(exists func(subjectID string) bool) Resolution {
	if r.Reason != ReasonScheduled {
		return r
	}
	kept := r.Lessons[:0:0]
	for _, l := range r.Lessons {
		if exists(l.SubjectID) {
			kept = append(kept, l)
		}
	}
	r.Lessons = kept
	if len(kept) == 0 {
		r.Reason = ReasonSubjectsMissing
	}
	return r
}
