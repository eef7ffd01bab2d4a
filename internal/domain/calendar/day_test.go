package calendar_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"classlog/internal/domain/calendar"
)

// TestParse tests parsing of YYYY-MM-DD strings.
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain day", input: "2024-09-02", want: "2024-09-02"},
		{name: "leap day", input: "2024-02-29", want: "2024-02-29"},
		{name: "no leap day", input: "2023-02-29", wantErr: true},
		{name: "german format", input: "02.09.2024", wantErr: true},
		{name: "with time", input: "2024-09-02T10:00:00Z", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calendar.Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, calendar.ErrInvalidDay) {
					t.Errorf("Parse(%q) err = %v, want ErrInvalidDay", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestDay_Monday tests normalisation to the start of the ISO week.
func TestDay_Monday(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-09-02", "2024-09-02"}, // Monday
		{"2024-09-04", "2024-09-02"}, // Wednesday
		{"2024-09-07", "2024-09-02"}, // Saturday
		{"2024-09-08", "2024-09-02"}, // Sunday
		{"2025-01-01", "2024-12-30"}, // across the year boundary
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if got := calendar.MustParse(tt.day).Monday().String(); got != tt.want {
				t.Errorf("Monday() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestDay_Arithmetic tests day shifts and comparisons.
func TestDay_Arithmetic(t *testing.T) {
	d := calendar.MustParse("2024-03-30")
	if got := d.AddDays(2).String(); got != "2024-04-01" {
		t.Errorf("AddDays(2) = %s", got)
	}
	if got := d.AddDays(-30).String(); got != "2024-02-29" {
		t.Errorf("AddDays(-30) = %s", got)
	}
	if n := d.DaysUntil(calendar.MustParse("2024-04-06")); n != 7 {
		t.Errorf("DaysUntil = %d, want 7", n)
	}
	if n := d.DaysUntil(calendar.MustParse("2024-03-23")); n != -7 {
		t.Errorf("DaysUntil backwards = %d, want -7", n)
	}
	if !d.Between(d, d) {
		t.Error("Between is not inclusive")
	}
	if d.Before(d) || d.After(d) {
		t.Error("Before/After are not strict")
	}
}

// TestFromTime_KeepsLocalDay tests that the wall-clock day is used, not UTC.
func TestFromTime_KeepsLocalDay(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	late := time.Date(2024, 9, 4, 0, 30, 0, 0, berlin) // still 3 Sep in UTC
	if got := calendar.FromTime(late).String(); got != "2024-09-04" {
		t.Errorf("FromTime = %s, want 2024-09-04", got)
	}
}

// TestDay_JSON tests the text encoding used on the wire.
func TestDay_JSON(t *testing.T) {
	type wrapper struct {
		Date calendar.Day `json:"date"`
	}
	b, err := json.Marshal(wrapper{Date: calendar.Date(2024, time.September, 2)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"date":"2024-09-02"}` {
		t.Errorf("marshal = %s", b)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"date":""}`), &w); err != nil || !w.Date.IsZero() {
		t.Errorf("empty date = %v, %v", w.Date, err)
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-13-01"}`), &w); err == nil {
		t.Error("expected error for month 13")
	}
}

// TestDay_Scan tests the database round trip.
func TestDay_Scan(t *testing.T) {
	var d calendar.Day
	if err := d.Scan("2024-09-02"); err != nil || d.String() != "2024-09-02" {
		t.Errorf("Scan string = %v, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan nil = %v, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
	if v, _ := (calendar.Day{}).Value(); v != nil {
		t.Errorf("zero Value = %v, want nil", v)
	}
}

// TestDay_PastAt tests the read-only boundary at local midnight.
func TestDay_PastAt(t *testing.T) {
	now := time.Date(2024, 9, 4, 0, 5, 0, 0, time.UTC)
	tests := []struct {
		day  string
		past bool
	}{
		{"2024-09-03", true},
		{"2023-12-31", true},
		{"2024-09-04", false},
		{"2024-09-05", false},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			d := calendar.MustParse(tt.day)
			if got := d.PastAt(now); got != tt.past {
				t.Errorf("PastAt = %v, want %v", got, tt.past)
			}
			err := d.Writable(now)
			if tt.past != errors.Is(err, calendar.ErrPastDay) {
				t.Errorf("Writable = %v, past = %v", err, tt.past)
			}
		})
	}
}
