package artifacts

import (
	"testing"
	"time"
)

func TestVersionFromTag(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		want   string
		wantOK bool
	}{
		{"dot separator", "v1.0.0.6683", "6683", true},
		{"dash separator", "v1.0.0-6683", "6683", true},
		{"underscore separator", "v1.0.0_6683", "6683", true},
		{"full ref path", "refs/tags/v1.0.0.6683", "6683", true},
		{"no build number", "v1.0.0", "", false},
		{"plain word", "latest", "", false},
		{"two components", "v1.0.6683", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VersionFromTag(tt.tag)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("VersionFromTag(%q) = (%q, %v), want (%q, %v)", tt.tag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSortedVersionsDescIsNumeric(t *testing.T) {
	c := Catalog{
		"999":  {},
		"6683": {},
		"42":   {},
		"6497": {},
	}
	got := sortedVersionsDesc(c)
	want := []string{"6683", "6497", "999", "42"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedVersionsDesc = %v, want %v", got, want)
		}
	}
}

func TestNewArtifactWindows(t *testing.T) {
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := NewArtifact(PlatformWindows, "6683", "abc123", published)

	wantURL := windowsArtifactBase + "/6683-abc123"
	if a.ArtifactURL != wantURL {
		t.Errorf("ArtifactURL = %q, want %q", a.ArtifactURL, wantURL)
	}
	if got := a.DownloadURLs["zip"]; got != wantURL+"/server.zip" {
		t.Errorf("zip URL = %q", got)
	}
	if got := a.DownloadURLs["7z"]; got != wantURL+"/server.7z" {
		t.Errorf("7z URL = %q", got)
	}
	if !a.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", a.PublishedAt, published)
	}
}

func TestNewArtifactLinux(t *testing.T) {
	a := NewArtifact(PlatformLinux, "6683", "abc123", time.Now())

	wantURL := linuxArtifactBase + "/6683-abc123"
	if a.ArtifactURL != wantURL {
		t.Errorf("ArtifactURL = %q, want %q", a.ArtifactURL, wantURL)
	}
	// Linux ships one tarball listed under both archive keys.
	tar := wantURL + "/fx.tar.xz"
	if a.DownloadURLs["zip"] != tar || a.DownloadURLs["7z"] != tar {
		t.Errorf("DownloadURLs = %v, want both keys %q", a.DownloadURLs, tar)
	}
}

func TestParsePlatform(t *testing.T) {
	if p, ok := ParsePlatform("windows"); !ok || p != PlatformWindows {
		t.Errorf("ParsePlatform(windows) = (%q, %v)", p, ok)
	}
	if p, ok := ParsePlatform("linux"); !ok || p != PlatformLinux {
		t.Errorf("ParsePlatform(linux) = (%q, %v)", p, ok)
	}
	if _, ok := ParsePlatform("darwin"); ok {
		t.Error("ParsePlatform(darwin) should be rejected")
	}
	if _, ok := ParsePlatform(""); ok {
		t.Error("ParsePlatform(\"\") should be rejected")
	}
}
