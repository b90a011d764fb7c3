package booking

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Pending", "done", "refunded"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true", s)
		}
	}
}

func TestCreateBookingInputTrim(t *testing.T) {
	in := CreateBookingInput{
		ClubID:   " C1 ",
		StartAt:  " 2026-03-01T10:00:00Z ",
		Currency: " EUR ",
	}
	in.Trim()
	if in.ClubID != "C1" || in.StartAt != "2026-03-01T10:00:00Z" || in.Currency != "eur" {
		t.Errorf("trim result: %+v", in)
	}
}
