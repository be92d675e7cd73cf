package domain

import (
	"testing"
	"time"
)

func TestCalendarDayIgnoresTimeOfDay(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	in := time.Date(2024, 1, 10, 23, 30, 0, 0, istanbul)

	got := CalendarDay(in)
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CalendarDay() = %v, want %v", got, want)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-01-10", "2024-01-10", false},
		{"2024-01-10T15:04:05Z", "2024-01-10", false},
		{"10.01.2024", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Format(DateLayout) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format(DateLayout), tt.want)
			}
		})
	}
}

func TestParseSeries(t *testing.T) {
	for _, s := range AllSeries() {
		got, err := ParseSeries(string(s))
		if err != nil || got != s {
			t.Errorf("ParseSeries(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseSeries("btc"); err == nil {
		t.Error("expected error for unknown series")
	}
}
