package web

import (
	"log/slog"
	"net/http"

	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/subject"
)

type subjectRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Order int    `json:"order" validate:"gte=0"`
}

type subjectPatchRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=60"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Order *int    `json:"order" validate:"omitempty,gte=0"`
}

// handleListSubjects handles GET /api/subjects.
func handleListSubjects(w http.ResponseWriter, r *http.Request) {
	list, err := stores.SubjectStore.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []subject.Subject{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateSubject handles POST /api/subjects.
func handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var input subjectRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	color := input.Color
	if color == "" {
		color = subject.DefaultColor
	}
	s, err := stores.SubjectStore.Add(r.Context(), subject.Subject{Name: input.Name, Color: color, Order: input.Order})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("subject_event", "event", "subject_created", "subject_id", s.ID, "name", s.Name)
	writeJSON(w, http.StatusCreated, s)
}

// handleUpdateSubject handles PATCH /api/subjects/{id}.
func handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	var input subjectPatchRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	s, err := stores.SubjectStore.Update(r.Context(), r.PathValue("id"), subject.Patch{
		Name: input.Name, Color: input.Color, Order: input.Order,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("subject_event", "event", "subject_updated", "subject_id", s.ID)
	writeJSON(w, http.StatusOK, s)
}

// handleDeleteSubject handles DELETE /api/subjects/{id}.
// Entries, slots and grades referring to the subject are kept.
func handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := stores.SubjectStore.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("subject_event", "event", "subject_deleted", "subject_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type evaluationTypeRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Color string `json:"color" validate:"required,hexcolor"`
	Order int    `json:"order" validate:"gte=0"`
}

type evaluationTypePatchRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=60"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Order *int    `json:"order" validate:"omitempty,gte=0"`
}

// handleListEvaluationTypes handles GET /api/evaluation-types.
func handleListEvaluationTypes(w http.ResponseWriter, r *http.Request) {
	list, err := stores.EvaluationStore.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []evaluation.Type{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateEvaluationType handles POST /api/evaluation-types.
func handleCreateEvaluationType(w http.ResponseWriter, r *http.Request) {
	var input evaluationTypeRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	t, err := stores.EvaluationStore.Add(r.Context(), evaluation.Type{Name: input.Name, Color: input.Color, Order: input.Order})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("evaluation_event", "event", "evaluation_type_created", "evaluation_type_id", t.ID, "name", t.Name)
	writeJSON(w, http.StatusCreated, t)
}

// handleUpdateEvaluationType handles PATCH /api/evaluation-types/{id}.
func handleUpdateEvaluationType(w http.ResponseWriter, r *http.Request) {
	var input evaluationTypePatchRequest
	if !decodeOrReject(w, r, &input) {
		return
	}
	t, err := stores.EvaluationStore.Update(r.Context(), r.PathValue("id"), evaluation.Patch{
		Name: input.Name, Color: input.Color, Order: input.Order,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("evaluation_event", "event", "evaluation_type_updated", "evaluation_type_id", t.ID)
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteEvaluationType handles DELETE /api/evaluation-types/{id}.
func handleDeleteEvaluationType(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := stores.EvaluationStore.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("evaluation_event", "event", "evaluation_type_deleted", "evaluation_type_id", id)
	w.WriteHeader(http.StatusNoContent)
}
