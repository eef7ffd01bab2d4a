package orchestrators

import (
	"context"
	"testing"

	"classlog/internal/domain/grade"
)

func TestCheckReminder(t *testing.T) {
	tests := []struct {
		name    string
		store   *mockReminderStore
		wantDue bool
	}{
		{"never saved", &mockReminderStore{}, false},
		{"armed in future", &mockReminderStore{reminder: grade.NewReminder(true, 7, fixedTime), found: true}, false},
		{"overdue", &mockReminderStore{reminder: grade.NewReminder(true, 7, fixedTime.AddDate(0, 0, -8)), found: true}, true},
		{"exactly due", &mockReminderStore{reminder: grade.NewReminder(true, 7, fixedTime.AddDate(0, 0, -7)), found: true}, true},
		{"disabled", &mockReminderStore{reminder: grade.NewReminder(false, 1, fixedTime.AddDate(0, 0, -30)), found: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, due, err := CheckReminder(context.Background(), ReminderDeps{ReminderStore: tt.store, Now: fixedNow})
			if err != nil {
				t.Fatalf("CheckReminder: %v", err)
			}
			if due != tt.wantDue {
				t.Errorf("due = %v, want %v", due, tt.wantDue)
			}
		})
	}
}
