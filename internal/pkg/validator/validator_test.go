package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	got, ok := IsValidDate("2024-03-01")
	if !ok {
		t.Fatalf("IsValidDate(2024-03-01) = false, want true")
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("IsValidDate(2024-03-01) = %v, want %v", got, want)
	}
	for _, s := range []string{"2024-13-01", "01-03-2024", "", "2024-02-30"} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateRange(t *testing.T) {
	if _, _, ok := IsValidDateRange("2024-03-01", "2024-03-05"); !ok {
		t.Errorf("IsValidDateRange(03-01, 03-05) = false, want true")
	}
	if _, _, ok := IsValidDateRange("2024-03-01", "2024-03-01"); !ok {
		t.Errorf("IsValidDateRange(03-01, 03-01) = false, want true")
	}
	if _, _, ok := IsValidDateRange("2024-03-05", "2024-03-01"); ok {
		t.Errorf("IsValidDateRange(03-05, 03-01) = true, want false")
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"NORMAL", "OVERTIME"}
	if !IsInSlice("NORMAL", slice) {
		t.Errorf("IsInSlice(NORMAL) = false, want true")
	}
	if IsInSlice("normal", slice) {
		t.Errorf("IsInSlice(normal) = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "label", Message: "label is required"},
		{Field: "start_time", Message: "start_time must be in HH:MM format"},
	}
	want := "label: label is required; start_time: start_time must be in HH:MM format"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{{Field: "hours", Message: "hours must be positive"}}
	m := errs.ToMap()
	if m["hours"] != "hours must be positive" {
		t.Errorf("ToMap()[hours] = %q", m["hours"])
	}
}
