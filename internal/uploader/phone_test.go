package uploader

import "testing"

func TestCleanNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+919876543210", "9876543210"},
		{"919876543210", "9876543210"},
		{"09876543210", "9876543210"},
		{"9876543210", "9876543210"},
	}
	for _, tc := range cases {
		if got := CleanNumber(tc.in); got != tc.want {
			t.Fatalf("CleanNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractPhoneNumber(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Call recording 9876543210_211006_085843.m4a", "9876543210"},
		{"Call recording +919876543210_211006_085843.m4a", "9876543210"},
		{"REC_211006_085843.m4a", ""},
		{"voicemail.mp3", ""},
	}
	for _, tc := range cases {
		if got := ExtractPhoneNumber(tc.name); got != tc.want {
			t.Fatalf("ExtractPhoneNumber(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
