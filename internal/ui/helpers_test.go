package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours", 2*60*60 + 10, "2h"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(timeSeconds(tc.in))
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Nebula Drift  ", 20); got != "Nebula Drift" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Nebula Drift", 8); got != "Nebul..." {
		t.Fatalf("truncate = %q, want Nebul...", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q, want ab", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("a/b/c/d/e", 7)
	if got == "a/b/c/d/e" {
		t.Fatalf("expected truncation")
	}
	if len([]rune(got)) > 7 {
		t.Fatalf("got %q (%d runes), want <=7", got, len([]rune(got)))
	}
}

func TestTruncateMiddle_KeepsExtension(t *testing.T) {
	got := truncateMiddle("https://cdn.example.com/wallpapers/full/abcdef0123456789.jpg", 30)
	if len([]rune(got)) > 30 {
		t.Fatalf("got %q (%d runes), want <=30", got, len([]rune(got)))
	}
	if got[len(got)-4:] != ".jpg" {
		t.Fatalf("got %q, want .jpg suffix", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight = %q", got)
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := map[string]string{
		"neon_city nights": "Neon City Nights",
		"  misty-forest ":  "Misty Forest",
		"":                 "",
	}
	for in, want := range tests {
		if got := displayTitle(in); got != want {
			t.Errorf("displayTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := formatCount(1234567); got != "1,234,567" {
		t.Fatalf("formatCount = %q, want 1,234,567", got)
	}
	if got := formatCount(20); got != "20" {
		t.Fatalf("formatCount = %q, want 20", got)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(999); got != "999 B" {
		t.Fatalf("formatBytes = %q, want 999 B", got)
	}
	if got := formatBytes(1024); got != "1.00 KiB" {
		t.Fatalf("formatBytes = %q, want 1.00 KiB", got)
	}
	if got := formatBytes(1024 * 1024); got != "1.00 MiB" {
		t.Fatalf("formatBytes = %q, want 1.00 MiB", got)
	}
}

func timeSeconds(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
