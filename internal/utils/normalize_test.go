package utils

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Canine Academy", "canine-academy"},
		{"  Pawsitive  Steps  ", "pawsitive-steps"},
		{"Čierny Pes", "cierny-pes"},
		{"Club #1 (Lyon)", "club-1-lyon"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeNameLower(t *testing.T) {
	if got := NormalizeNameLower("  Happy   Dogs "); got != "happy dogs" {
		t.Errorf("got %q", got)
	}
}

func TestSearchTokens(t *testing.T) {
	got := SearchTokens("Happy Dogs", "Lyon")
	want := []string{"happy dogs", "happy", "dogs", "lyon"}
	if len(got) != len(want) {
		t.Fatalf("SearchTokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-01T10:00:00",
		"2026-03-01 10:00:00",
		"2026-03-01",
	} {
		if _, err := ParseTime(in); err != nil {
			t.Errorf("ParseTime(%q): %v", in, err)
		}
	}

	if _, err := ParseTime("not-a-time"); err != ErrInvalidTimeFormat {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestTrimMax(t *testing.T) {
	if got := TrimMax("  hello  ", 3); got != "hel" {
		t.Errorf("got %q", got)
	}
	if got := TrimMax("hi", 10); got != "hi" {
		t.Errorf("got %q", got)
	}
}

func TestParseTimeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := ParseTime(ts.Format(time.RFC3339))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ts) {
		t.Errorf("got %v, want %v", got, ts)
	}
}
