package calc

import "testing"

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		guests       int
		hours        int
		activity     string
		wantPerGuest float64
		wantTotal    float64
	}{
		{"vr party", 4, 2, "vr", 300, 2400},
		{"trampoline", 10, 3, "trampoline", 500, 15000},
		{"nerf", 2, 1, "nerf", 2500, 5000},
		{"unknown activity falls back", 4, 2, "laser-tag", 500, 4000},
		{"single guest single hour", 1, 1, "vr", 300, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.guests, tt.hours, tt.activity)
			if err != nil {
				t.Fatalf("Calculate(%d, %d, %q) error: %v", tt.guests, tt.hours, tt.activity, err)
			}
			if got.PerGuest != tt.wantPerGuest {
				t.Errorf("PerGuest = %v, want %v", got.PerGuest, tt.wantPerGuest)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestCalculateRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		guests int
		hours  int
	}{
		{"zero guests", 0, 2},
		{"negative guests", -1, 2},
		{"zero hours", 4, 0},
		{"negative hours", 4, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Calculate(tt.guests, tt.hours, "vr"); err == nil {
				t.Errorf("Calculate(%d, %d) expected error", tt.guests, tt.hours)
			}
		})
	}
}

func TestRecordCapturesEstimate(t *testing.T) {
	est, err := Calculate(4, 2, "vr")
	if err != nil {
		t.Fatal(err)
	}
	rec := Record(4, 2, "vr", est)
	if rec.Total != 2400 || rec.PerGuest != 300 || rec.Guests != 4 || rec.Hours != 2 || rec.Activity != "vr" {
		t.Errorf("Record = %+v", rec)
	}
	if rec.Timestamp.IsZero() {
		t.Error("Record timestamp not set")
	}
}
