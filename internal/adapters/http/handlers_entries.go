package web

import (
	"net/http"
	"strings"

	"classlog/internal/application/listutil"
	"classlog/internal/application/orchestrators"
	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
)

// pageResponse wraps one page of a list.
type pageResponse[T any] struct {
	Items []T               `json:"items"`
	Page  listutil.PageInfo `json:"page"`
}

type entryRequest struct {
	SubjectID        string `json:"subjectId" validate:"required"`
	EvaluationTypeID string `json:"evaluationTypeId" validate:"required"`
	Date             string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note             string `json:"note" validate:"max=500"`
}

type entryPatchRequest struct {
	SubjectID        *string `json:"subjectId" validate:"omitempty,min=1"`
	EvaluationTypeID *string `json:"evaluationTypeId" validate:"omitempty,min=1"`
	Date             *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note             *string `json:"note" validate:"omitempty,max=500"`
}

// handleListEntries handles GET /api/entries?date=&subject=&page=&per_page=.
// Without filters every entry is listed, newest first.
func handleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	subjectID := strings.TrimSpace(q.Get("subject"))

	var (
		list []entry.Entry
		err  error
	)
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		date, perr := calendar.Parse(raw)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		if subjectID != "" {
			list, err = stores.EntryStore.ListByDateAndSubject(ctx, date, subjectID)
		} else {
			list, err = stores.EntryStore.ListByDate(ctx, date)
		}
	} else if subjectID != "" {
		list, err = stores.EntryStore.ListBySubject(ctx, subjectID)
	} else {
		list, err = stores.EntryStore.List(ctx)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	items, info := listutil.Paginate(list, listutil.ParsePageParams(q))
	writeJSON(w, http.StatusOK, pageResponse[entry.Entry]{Items: items, Page: info})
}

// handleCreateEntry handles POST /api/entries.
func handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var input entryRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	date, err := parseOptionalDay(input.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := orchestrators.ExecuteLogParticipation(r.Context(), orchestrators.LogParticipationInput{
		SubjectID:        input.SubjectID,
		EvaluationTypeID: input.EvaluationTypeID,
		Date:             date,
		Note:             input.Note,
	}, orchestrators.LogParticipationDeps{
		EntryStore:      stores.EntryStore,
		SubjectStore:    stores.SubjectStore,
		EvaluationStore: stores.EvaluationStore,
		Now:             timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handleUpdateEntry handles PATCH /api/entries/{id}. The timestamp is kept; past days are read-only.
func handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var input entryPatchRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	patch := entry.Patch{SubjectID: input.SubjectID, EvaluationTypeID: input.EvaluationTypeID, Note: input.Note}
	if input.Date != nil {
		d, err := calendar.Parse(*input.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		patch.Date = &d
	}
	e, err := orchestrators.ExecuteUpdateEntry(r.Context(), r.PathValue("id"), patch, editEntryDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleDeleteEntry handles DELETE /api/entries/{id}. Entries of past days stay.
func handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteEntry(r.Context(), r.PathValue("id"), editEntryDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func editEntryDeps() orchestrators.EditEntryDeps {
	return orchestrators.EditEntryDeps{EntryStore: stores.EntryStore, Now: timeNow}
}

type dayNoteRequest struct {
	SubjectID string `json:"subjectId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Note      string `json:"note" validate:"max=5000"`
}

// handleGetDayNote handles GET /api/day-notes?date=&subject=.
// Without subject, every note of the day is returned.
func handleGetDayNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date, err := queryDay(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	subjectID := strings.TrimSpace(r.URL.Query().Get("subject"))
	if subjectID == "" {
		notes, err := stores.DayNoteStore.ListByDate(ctx, date)
		if err != nil {
			writeError(w, err)
			return
		}
		if notes == nil {
			notes = []daynote.DayNote{}
		}
		writeJSON(w, http.StatusOK, notes)
		return
	}

	n, found, err := stores.DayNoteStore.Get(ctx, date, subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handlePutDayNote handles PUT /api/day-notes. A blank note deletes the stored one.
func handlePutDayNote(w http.ResponseWriter, r *http.Request) {
	var input dayNoteRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	date, err := calendar.Parse(input.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := orchestrators.ExecuteSaveDayNote(r.Context(), orchestrators.SaveDayNoteInput{
		SubjectID: input.SubjectID,
		Date:      date,
		Note:      input.Note,
	}, orchestrators.SaveDayNoteDeps{DayNoteStore: stores.DayNoteStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, res.Note)
}
