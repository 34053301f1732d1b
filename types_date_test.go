package tracker

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		want      Date
		expectErr bool
	}{
		{"ISO date", "2025-03-05", NewDate(2025, time.March, 5), false},
		{"lenient single digits", "2025-3-5", NewDate(2025, time.March, 5), false},
		{"RFC3339 timestamp", "2025-03-05T10:30:00Z", NewDate(2025, time.March, 5), false},
		{"garbage", "not a date", Date{}, true},
		{"empty", "", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if (err != nil) != tc.expectErr {
				t.Fatalf("ParseDate(%q) error = %v, want error %v", tc.input, err, tc.expectErr)
			}
			if !tc.expectErr && got != tc.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("2025-03")
	if err != nil {
		t.Fatalf("ParseMonthKey: %v", err)
	}
	if want := NewDate(2025, time.March, 1); got != want {
		t.Errorf("ParseMonthKey(2025-03) = %v, want %v", got, want)
	}
	if _, err := ParseMonthKey("march"); err == nil {
		t.Error("ParseMonthKey(march) expected an error")
	}
}

func TestDateMonthBounds(t *testing.T) {
	d := NewDate(2024, time.February, 15)
	if got := d.StartOfMonth(); got != NewDate(2024, time.February, 1) {
		t.Errorf("StartOfMonth = %v", got)
	}
	// leap year
	if got := d.EndOfMonth(); got != NewDate(2024, time.February, 29) {
		t.Errorf("EndOfMonth = %v", got)
	}
	if got := d.MonthKey(); got != "2024-02" {
		t.Errorf("MonthKey = %q", got)
	}
	if got := d.StartOfMonth().AddMonth(-1); got != NewDate(2024, time.January, 1) {
		t.Errorf("previous month = %v", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.July, 4)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-07-04"` {
		t.Errorf("MarshalJSON = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
