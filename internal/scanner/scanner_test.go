package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestScanFiltersToAudioExtensions(t *testing.T) {
	dir := t.TempDir()

	audio := []string{"a.mp3", "b.m4a", "c.wav", "d.AMR"}
	other := []string{"notes.txt", "image.jpg", "clip.mp4", "noext"}
	for _, name := range append(append([]string{}, audio...), other...) {
		writeFile(t, dir, name)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := Scan(dir)
	if len(got) != len(audio) {
		t.Fatalf("expected %d candidates, got %d", len(audio), len(got))
	}
	seen := make(map[string]bool)
	for _, c := range got {
		seen[c.Name] = true
		if c.SizeBytes == 0 {
			t.Fatalf("candidate %s has zero size", c.Name)
		}
		if c.Timestamp.IsZero() {
			t.Fatalf("candidate %s has zero timestamp", c.Name)
		}
	}
	for _, name := range audio {
		if !seen[name] {
			t.Fatalf("missing candidate %s", name)
		}
	}
}

func TestScanUsesModTime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "call.mp3")

	want := time.Date(2021, 10, 6, 8, 58, 43, 0, time.Local)
	if err := os.Chtimes(path, want, want); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	got := Scan(dir)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, got[0].Timestamp)
	}
}

func TestScanMissingDirYieldsEmpty(t *testing.T) {
	got := Scan(filepath.Join(t.TempDir(), "nope"))
	if len(got) != 0 {
		t.Fatalf("expected empty result for missing dir, got %d", len(got))
	}
}

func TestTimestampFromName(t *testing.T) {
	cases := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{
			name: "REC_211006_085843.m4a",
			want: time.Date(2021, time.October, 6, 8, 58, 43, 0, time.Local),
			ok:   true,
		},
		{
			name: "Call recording 9876543210_240229_235959.mp3",
			want: time.Date(2024, time.February, 29, 23, 59, 59, 0, time.Local),
			ok:   true,
		},
		{name: "voicemail.mp3", ok: false},
		{name: "REC_219999_085843.m4a", ok: false},
		{name: "REC_210230_120000.m4a", ok: false}, // Feb 30 does not exist
		{name: "REC_211006_256161.m4a", ok: false},
	}

	for _, tc := range cases {
		got, ok := TimestampFromName(tc.name)
		if ok != tc.ok {
			t.Fatalf("TimestampFromName(%q): ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if tc.ok && !got.Equal(tc.want) {
			t.Fatalf("TimestampFromName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCheckFolder(t *testing.T) {
	dir := t.TempDir()
	if err := CheckFolder(dir); err != nil {
		t.Fatalf("CheckFolder on valid dir: %v", err)
	}
	if err := CheckFolder(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing folder")
	}
	file := writeFile(t, dir, "f.mp3")
	if err := CheckFolder(file); err == nil {
		t.Fatalf("expected error for non-directory path")
	}
}
