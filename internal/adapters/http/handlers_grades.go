package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"classlog/internal/application/listutil"
	"classlog/internal/application/orchestrators"
	"classlog/internal/application/projections"
	"classlog/internal/domain/calendar"
	"classlog/internal/domain/grade"
)

type gradeRequest struct {
	SubjectID string  `json:"subjectId" validate:"required"`
	Grade     float64 `json:"grade" validate:"gte=0,lte=15"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note      string  `json:"note" validate:"max=500"`
	// EvaluationCombination is either an object of counts or, from older clients, that object as a JSON string.
	// When absent the snapshot is computed from recent entries.
	EvaluationCombination json.RawMessage `json:"evaluationCombination"`
}

type reminderRequest struct {
	Enabled   bool `json:"enabled"`
	Frequency int  `json:"frequency"`
}

// handleListGrades handles GET /api/grades?subject=&date=&page=&per_page=.
func handleListGrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		list []grade.Grade
		err  error
	)
	switch {
	case strings.TrimSpace(q.Get("subject")) != "":
		list, err = stores.GradeStore.ListBySubject(ctx, strings.TrimSpace(q.Get("subject")))
	case strings.TrimSpace(q.Get("date")) != "":
		date, perr := calendar.Parse(strings.TrimSpace(q.Get("date")))
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		list, err = stores.GradeStore.ListByDate(ctx, date)
	default:
		list, err = stores.GradeStore.List(ctx)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	items, info := listutil.Paginate(list, listutil.ParsePageParams(q))
	writeJSON(w, http.StatusOK, pageResponse[grade.Grade]{Items: items, Page: info})
}

// handleCreateGrade handles POST /api/grades.
func handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var input gradeRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	date, err := parseOptionalDay(input.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	legacy, err := combinationText(input.EvaluationCombination)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := orchestrators.ExecuteRecordGrade(r.Context(), orchestrators.RecordGradeInput{
		SubjectID:         input.SubjectID,
		Grade:             input.Grade,
		Date:              date,
		LegacyCombination: legacy,
		Note:              input.Note,
	}, orchestrators.RecordGradeDeps{
		GradeStore: stores.GradeStore,
		EntryStore: stores.EntryStore,
		Now:        timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// combinationText normalises both accepted wire forms to the JSON object text.
func combinationText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %v", grade.ErrMalformedSnapshot, err)
		}
		if strings.TrimSpace(s) == "" {
			return "{}", nil
		}
		return s, nil
	}
	return string(raw), nil
}

// handleDeleteGrade handles DELETE /api/grades/{id}.
func handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	if err := stores.GradeStore.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetReminder handles GET /api/grade-reminder.
func handleGetReminder(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetReminderDue(r.Context(), projections.GetReminderDueDeps{
		ReminderStore: stores.ReminderStore,
		Now:           timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Reminder)
}

// handlePutReminder handles PUT /api/grade-reminder.
func handlePutReminder(w http.ResponseWriter, r *http.Request) {
	var input reminderRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	saved, err := orchestrators.ExecuteSaveReminder(r.Context(), orchestrators.SaveReminderInput{
		Enabled:   input.Enabled,
		Frequency: input.Frequency,
	}, orchestrators.ReminderDeps{ReminderStore: stores.ReminderStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleReminderDue handles GET /api/grade-reminder/due.
func handleReminderDue(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetReminderDue(r.Context(), projections.GetReminderDueDeps{
		ReminderStore: stores.ReminderStore,
		Now:           timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleAcknowledgeReminder handles POST /api/grade-reminder/acknowledge.
func handleAcknowledgeReminder(w http.ResponseWriter, r *http.Request) {
	saved, err := orchestrators.ExecuteAcknowledgeReminder(r.Context(),
		orchestrators.ReminderDeps{ReminderStore: stores.ReminderStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
