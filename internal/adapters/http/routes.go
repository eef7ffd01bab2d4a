package web

import "net/http"

// registerRoutes maps every API endpoint using method patterns.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/subjects", handleListSubjects)
	mux.HandleFunc("POST /api/subjects", handleCreateSubject)
	mux.HandleFunc("PATCH /api/subjects/{id}", handleUpdateSubject)
	mux.HandleFunc("DELETE /api/subjects/{id}", handleDeleteSubject)

	mux.HandleFunc("GET /api/evaluation-types", handleListEvaluationTypes)
	mux.HandleFunc("POST /api/evaluation-types", handleCreateEvaluationType)
	mux.HandleFunc("PATCH /api/evaluation-types/{id}", handleUpdateEvaluationType)
	mux.HandleFunc("DELETE /api/evaluation-types/{id}", handleDeleteEvaluationType)

	mux.HandleFunc("GET /api/entries", handleListEntries)
	mux.HandleFunc("POST /api/entries", handleCreateEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", handleDeleteEntry)

	mux.HandleFunc("GET /api/day-notes", handleGetDayNote)
	mux.HandleFunc("PUT /api/day-notes", handlePutDayNote)

	mux.HandleFunc("GET /api/schedule/slots", handleListSlots)
	mux.HandleFunc("PUT /api/schedule/slots", handleAssignSlots)
	mux.HandleFunc("DELETE /api/schedule/slots/{id}", handleDeleteSlot)
	mux.HandleFunc("DELETE /api/schedule/slots", handleClearSlots)
	mux.HandleFunc("GET /api/schedule/week-system", handleGetWeekSystem)
	mux.HandleFunc("PUT /api/schedule/week-system", handlePutWeekSystem)
	mux.HandleFunc("GET /api/schedule/day", handleDailySchedule)

	mux.HandleFunc("GET /api/weeks", handleWeek)
	mux.HandleFunc("GET /api/history", handleHistory)
	mux.HandleFunc("GET /api/statistics", handleStatistics)

	mux.HandleFunc("GET /api/grades", handleListGrades)
	mux.HandleFunc("POST /api/grades", handleCreateGrade)
	mux.HandleFunc("DELETE /api/grades/{id}", handleDeleteGrade)

	mux.HandleFunc("GET /api/grade-reminder", handleGetReminder)
	mux.HandleFunc("PUT /api/grade-reminder", handlePutReminder)
	mux.HandleFunc("GET /api/grade-reminder/due", handleReminderDue)
	mux.HandleFunc("POST /api/grade-reminder/acknowledge", handleAcknowledgeReminder)

	mux.HandleFunc(perfRoute, handlePerf)
}
