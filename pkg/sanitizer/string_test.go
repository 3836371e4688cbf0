package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "  \t\n ", ""},
		{"surrounding whitespace", "  Court 3  ", "Court 3"},
		{"internal runs collapse", "double  booked\t\tcourt", "double booked court"},
		{"newlines collapse", "no\nlonger\nneeded", "no longer needed"},
		{"already clean", "fine as is", "fine as is"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Pending", "pending"},
		{"  APPROVED ", "approved"},
		{"declined", "declined"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.input); got != tt.expected {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"abcdefghij", 8, "abcdefgh"},
		{"short", 8, "short"},
		{"exactly8", 8, "exactly8"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.n); got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}
