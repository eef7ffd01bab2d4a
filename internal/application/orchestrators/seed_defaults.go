package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"classlog/internal/domain/evaluation"
	"classlog/internal/domain/subject"
)

// SubjectStoreForSeed defines the store interface needed by SeedDefaults.
type SubjectStoreForSeed interface {
	Add(ctx context.Context, s subject.Subject) (subject.Subject, error)
	List(ctx context.Context) ([]subject.Subject, error)
}

// EvaluationStoreForSeed defines the store interface needed by SeedDefaults.
type EvaluationStoreForSeed interface {
	Add(ctx context.Context, t evaluation.Type) (evaluation.Type, error)
	List(ctx context.Context) ([]evaluation.Type, error)
}

// DefaultSubjects are created on first start.
var DefaultSubjects = []subject.Subject{
	{Name: "Mathematik", Color: "#3b82f6", Order: 0},
	{Name: "Deutsch", Color: "#ef4444", Order: 1},
	{Name: "Englisch", Color: "#10b981", Order: 2},
}

// DefaultEvaluationTypes are created on first start.
var DefaultEvaluationTypes = []evaluation.Type{
	{Name: "Richtig", Color: "#10b981", Order: 0},
	{Name: "Teilweise richtig", Color: "#f59e0b", Order: 1},
	{Name: "Falsch", Color: "#ef4444", Order: 2},
	{Name: "Nicht relevant", Color: "#6b7280", Order: 3},
	{Name: "Gemeldet", Color: "#8b5cf6", Order: 4},
}

// SeedDefaultsDeps holds dependencies for SeedDefaults.
type SeedDefaultsDeps struct {
	SubjectStore    SubjectStoreForSeed
	EvaluationStore EvaluationStoreForSeed
}

// SeedDefaultsResult reports how many records were created.
type SeedDefaultsResult struct {
	Subjects        int
	EvaluationTypes int
}

// ExecuteSeedDefaults creates the default subjects and evaluation types.
// Each collection is seeded independently and only while it is empty.
// PRE: none
// POST: neither collection is empty; existing data is never touched
func ExecuteSeedDefaults(ctx context.Context, deps SeedDefaultsDeps) (SeedDefaultsResult, error) {
	var result SeedDefaultsResult

	subjects, err := deps.SubjectStore.List(ctx)
	if err != nil {
		return result, err
	}
	if len(subjects) == 0 {
		for _, s := range DefaultSubjects {
			if _, err := deps.SubjectStore.Add(ctx, s); err != nil {
				return result, fmt.Errorf("seed subject %s: %w", s.Name, err)
			}
			result.Subjects++
		}
	}

	types, err := deps.EvaluationStore.List(ctx)
	if err != nil {
		return result, err
	}
	if len(types) == 0 {
		for _, t := range DefaultEvaluationTypes {
			if _, err := deps.EvaluationStore.Add(ctx, t); err != nil {
				return result, fmt.Errorf("seed evaluation type %s: %w", t.Name, err)
			}
			result.EvaluationTypes++
		}
	}

	if result.Subjects > 0 || result.EvaluationTypes > 0 {
		slog.Info("seed_event", "event", "defaults_seeded", "subjects", result.Subjects, "evaluation_types", result.EvaluationTypes)
	}
	return result, nil
}
