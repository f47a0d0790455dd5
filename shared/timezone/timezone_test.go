package timezone_test

import (
	"pms/shared/timezone"
	"testing"
	"time"
)

func TestTimezoneInit(t *testing.T) {
	// Test Now() function
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	// Test GetLocation()
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if appTime.Location() == nil {
		t.Error("Expected converted time to have a location")
	}
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed == (time.Time{}) {
		t.Error("Parse() returned a zero time")
	}
}

func TestTruncateDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	input := time.Date(2024, 3, 10, 23, 30, 0, 0, jakarta)

	day := timezone.TruncateDay(input)

	if day != time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) {
		t.Errorf("expected 2024-03-10 UTC midnight, got %v", day)
	}
}

func TestParseDate(t *testing.T) {
	day, err := timezone.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}

	if day != time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected day %v", day)
	}

	if _, err := timezone.ParseDate("29/02/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	if today.Hour() != 0 || today.Minute() != 0 || today.Location() != time.UTC {
		t.Errorf("expected midnight UTC, got %v", today)
	}
}
