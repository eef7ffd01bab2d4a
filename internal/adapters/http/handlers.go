package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"classlog/internal/adapters/storage"
	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/grade"
	"classlog/internal/domain/subject"
	"classlog/internal/domain/timetable"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// validate checks request DTOs.
var validate = validator.New()

// badRequestErrors are domain invariant violations a client can fix.
var badRequestErrors = []error{
	calendar.ErrInvalidDay,
	subject.ErrEmptyName, subject.ErrNameTooLong, subject.ErrInvalidColor, subject.ErrNegativeOrder,
	evaluation.ErrEmptyName, evaluation.ErrNameTooLong, evaluation.ErrInvalidColor, evaluation.ErrNegativeOrder,
	entry.ErrEmptySubjectID, entry.ErrEmptyEvaluationTypeID, entry.ErrMissingDate, entry.ErrNoteTooLong,
	daynote.ErrEmptySubjectID, daynote.ErrMissingDate, daynote.ErrNoteTooLong,
	timetable.ErrEmptySubjectID, timetable.ErrInvalidDayOfWeek, timetable.ErrInvalidPeriod,
	timetable.ErrInvalidWeekType, timetable.ErrMissingReferenceDate,
	grade.ErrEmptySubjectID, grade.ErrGradeOutOfRange, grade.ErrMissingDate, grade.ErrNoteTooLong,
	grade.ErrMalformedSnapshot, grade.ErrInvalidFrequency, grade.ErrInconsistentReminder,
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeError maps store and domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrConstraintViolation):
		http.Error(w, "conflicts with an existing record", http.StatusConflict)
	case errors.Is(err, calendar.ErrPastDay):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrStoreUnavailable):
		slog.Error("store_unavailable", "error", err.Error())
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	case isBadRequest(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// strictDecode decodes JSON from the request body, rejecting unknown fields, then validates it.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return validationMessage(err)
	}
	return nil
}

// validationMessage flattens validator errors into one line per field.
func validationMessage(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// decodeOrReject decodes the body and answers 400 on failure. It reports whether to continue.
func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := strictDecode(w, r, v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response_failed", "error", err.Error())
	}
}

// queryDay reads an optional YYYY-MM-DD query parameter, defaulting to today.
func queryDay(r *http.Request, name string) (calendar.Day, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return calendar.FromTime(timeNow()), nil
	}
	return calendar.Parse(raw)
}

// parseOptionalDay parses a DTO date field; an empty string yields the zero Day.
func parseOptionalDay(raw string) (calendar.Day, error) {
	if raw == "" {
		return calendar.Day{}, nil
	}
	return calendar.Parse(raw)
}
