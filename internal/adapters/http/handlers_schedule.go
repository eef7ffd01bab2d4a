package web

import (
	"net/http"
	"strconv"

	"classlog/internal/application/orchestrators"
	"classlog/internal/application/projections"
	"classlog/internal/domain/timetable"
)

type slotsRequest struct {
	SubjectID string `json:"subjectId"`
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=4"`
	Period    int    `json:"period" validate:"gte=1,lte=10"`
	WeekType  string `json:"weekType" validate:"omitempty,oneof=A B a b"`
	// Clear empties the double period instead of assigning SubjectID.
	Clear bool `json:"clear"`
}

type weekSystemRequest struct {
	Enabled       bool   `json:"enabled"`
	ReferenceDate string `json:"referenceDate" validate:"omitempty,datetime=2006-01-02"`
}

// handleListSlots handles GET /api/schedule/slots.
func handleListSlots(w http.ResponseWriter, r *http.Request) {
	var (
		list []timetable.Slot
		err  error
	)
	if raw := r.URL.Query().Get("day"); raw != "" {
		day, convErr := strconv.Atoi(raw)
		if convErr != nil {
			http.Error(w, "day must be 0-4", http.StatusBadRequest)
			return
		}
		list, err = stores.SlotStore.ListByDay(r.Context(), day)
	} else {
		list, err = stores.SlotStore.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []timetable.Slot{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleAssignSlots handles PUT /api/schedule/slots.
// It fills or clears both periods of the double period containing Period.
func handleAssignSlots(w http.ResponseWriter, r *http.Request) {
	var input slotsRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	weekType, err := timetable.ParseWeekType(input.WeekType)
	if err != nil {
		writeError(w, err)
		return
	}

	if input.Clear {
		removed, err := orchestrators.ExecuteClearDoublePeriod(r.Context(), orchestrators.ClearDoublePeriodInput{
			DayOfWeek: input.DayOfWeek,
			Period:    input.Period,
			WeekType:  weekType,
		}, orchestrators.ClearDoublePeriodDeps{SlotStore: stores.SlotStore, WeekSystemStore: stores.WeekSystemStore})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
		return
	}

	placed, err := orchestrators.ExecuteAssignDoublePeriod(r.Context(), orchestrators.AssignDoublePeriodInput{
		SubjectID: input.SubjectID,
		DayOfWeek: input.DayOfWeek,
		Period:    input.Period,
		WeekType:  weekType,
	}, orchestrators.AssignDoublePeriodDeps{SlotStore: stores.SlotStore, WeekSystemStore: stores.WeekSystemStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, placed)
}

// handleDeleteSlot handles DELETE /api/schedule/slots/{id}.
func handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := stores.SlotStore.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearSlots handles DELETE /api/schedule/slots.
func handleClearSlots(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteResetSchedule(r.Context(), orchestrators.ResetScheduleDeps{SlotStore: stores.SlotStore}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetWeekSystem handles GET /api/schedule/week-system.
func handleGetWeekSystem(w http.ResponseWriter, r *http.Request) {
	settings, _, err := stores.WeekSystemStore.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handlePutWeekSystem handles PUT /api/schedule/week-system.
func handlePutWeekSystem(w http.ResponseWriter, r *http.Request) {
	var input weekSystemRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	ref, err := parseOptionalDay(input.ReferenceDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	saved, err := orchestrators.ExecuteSetWeekSystem(r.Context(), orchestrators.SetWeekSystemInput{
		Enabled:       input.Enabled,
		ReferenceDate: ref,
	}, orchestrators.SetWeekSystemDeps{WeekSystemStore: stores.WeekSystemStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleDailySchedule handles GET /api/schedule/day?date=.
func handleDailySchedule(w http.ResponseWriter, r *http.Request) {
	date, err := queryDay(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetDailySchedule(r.Context(), projections.GetDailyScheduleQuery{Date: date},
		projections.GetDailyScheduleDeps{
			SlotStore:       stores.SlotStore,
			WeekSystemStore: stores.WeekSystemStore,
			SubjectStore:    stores.SubjectStore,
			EntryStore:      stores.EntryStore,
			DayNoteStore:    stores.DayNoteStore,
			Now:             timeNow,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleWeek handles GET /api/weeks?start=.
func handleWeek(w http.ResponseWriter, r *http.Request) {
	start, err := queryDay(r, "start")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetWeek(r.Context(), projections.GetWeekQuery{Start: start},
		projections.GetWeekDeps{EntryStore: stores.EntryStore, WeekSystemStore: stores.WeekSystemStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
