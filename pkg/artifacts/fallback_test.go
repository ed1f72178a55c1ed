package artifacts

import (
	"testing"
	"time"
)

func TestFallbackCatalogsComplete(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	catalogs := FallbackCatalogs(now)

	for _, p := range AllPlatforms {
		c, ok := catalogs[p]
		if !ok {
			t.Fatalf("missing catalog for platform %s", p)
		}
		if len(c) != len(fallbackBuilds) {
			t.Errorf("platform %s has %d entries, want %d", p, len(c), len(fallbackBuilds))
		}

		recommended := 0
		for version, a := range c {
			if a.EOL || a.SupportStatus == StatusEOL {
				t.Errorf("fallback entry %s/%s is eol", p, version)
			}
			if a.Recommended {
				recommended++
				if version != fallbackRecommended {
					t.Errorf("recommended flag on %s, want %s", version, fallbackRecommended)
				}
				if a.SupportStatus != StatusRecommended {
					t.Errorf("recommended entry status = %q", a.SupportStatus)
				}
			}
			if want := now.Add(fallbackSupport); !a.SupportEnds.Equal(want) {
				t.Errorf("entry %s supportEnds = %v, want %v", version, a.SupportEnds, want)
			}
			if a.ArtifactURL == "" || len(a.DownloadURLs) == 0 {
				t.Errorf("entry %s missing download locations", version)
			}
		}
		if recommended != 1 {
			t.Errorf("platform %s has %d recommended entries, want 1", p, recommended)
		}
	}
}

func TestFallbackSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := FallbackSnapshot(now)

	if snap.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", snap.Source, SourceFallback)
	}
	if !snap.FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, now)
	}
	if want := len(fallbackBuilds) * len(AllPlatforms); snap.Count() != want {
		t.Errorf("Count = %d, want %d", snap.Count(), want)
	}
	if snap.ETag != "" {
		t.Errorf("fallback snapshot carries etag %q", snap.ETag)
	}
}
