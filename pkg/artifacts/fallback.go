package artifacts

import "time"

// fallbackSupport is the synthetic support window granted to fallback
// entries; no real publish timestamps are available to classify against.
const fallbackSupport = 30 * 24 * time.Hour

// fallbackBuilds is the hard-coded known-good dataset used when live
// synchronization yields nothing and no cache exists.
var fallbackBuilds = []struct {
	version string
	sha     string
}{
	{"6683", "ad6c90072e62cdb7ee0dcc943d7ded8a5107d542"},
	{"6624", "779c1fa38ec01b33d79a5e994b7e0c1a0bbc4421"},
	{"6551", "b85db86b37fdcab942859d3ef31cc4bd43eee8f6"},
	{"6497", "a87d8d99b11e56da288b215c435a3d95f5e1aee5"},
	{"6337", "8b8d86c8bd866af8725932ad8761212eb8fd3335"},
}

// fallbackRecommended is the designated recommended fallback version.
const fallbackRecommended = "6683"

// FallbackCatalogs returns the deterministic fallback dataset. The
// designated version is flagged recommended with a synthetic support window;
// everything else is active. No entry is ever eol.
func FallbackCatalogs(now time.Time) Catalogs {
	catalogs := Catalogs{}
	for _, p := range AllPlatforms {
		catalog := make(Catalog, len(fallbackBuilds))
		for _, b := range fallbackBuilds {
			a := NewArtifact(p, b.version, b.sha, now)
			a.SupportStatus = StatusActive
			a.SupportEnds = now.Add(fallbackSupport)
			if b.version == fallbackRecommended {
				a.Recommended = true
				a.SupportStatus = StatusRecommended
			}
			catalog[b.version] = a
		}
		catalogs[p] = catalog
	}
	return catalogs
}

// FallbackSnapshot wraps the fallback dataset in a published-ready snapshot.
func FallbackSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Catalogs:  FallbackCatalogs(now),
		FetchedAt: now,
		Source:    SourceFallback,
	}
}
