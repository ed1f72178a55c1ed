package artifacts

import "time"

// Platform identifies the build flavor of an artifact.
type Platform string

// Supported platforms.
const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
)

// AllPlatforms lists every platform in stable order.
var AllPlatforms = []Platform{PlatformWindows, PlatformLinux}

// ParsePlatform maps a query string to a Platform.
// Returns ok=false for anything other than "windows" or "linux".
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformWindows, PlatformLinux:
		return Platform(s), true
	}
	return "", false
}

// SupportStatus is the lifecycle label derived for a version.
type SupportStatus string

// Lifecycle labels, newest to oldest. Deprecated exists for API
// compatibility; the classifier never assigns it.
const (
	StatusRecommended SupportStatus = "recommended"
	StatusLatest      SupportStatus = "latest"
	StatusActive      SupportStatus = "active"
	StatusDeprecated  SupportStatus = "deprecated"
	StatusEOL         SupportStatus = "eol"
)

// Artifact is one downloadable server build for a (platform, version) pair.
// JSON field names match the public API payload.
type Artifact struct {
	Version       string            `json:"version"`
	Recommended   bool              `json:"recommended"`
	Critical      bool              `json:"critical"`
	DownloadURLs  map[string]string `json:"download_urls"`
	ArtifactURL   string            `json:"artifact_url"`
	PublishedAt   time.Time         `json:"published_at"`
	SupportStatus SupportStatus     `json:"supportStatus,omitempty"`
	SupportEnds   time.Time         `json:"supportEnds,omitzero"`
	EOL           bool              `json:"eol"`
}

// Catalog maps version string to artifact for one platform.
type Catalog map[string]Artifact

// Catalogs holds one catalog per platform.
type Catalogs map[Platform]Catalog

// Source records where a snapshot's data came from.
type Source string

// Snapshot provenance values.
const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Snapshot is an immutable, fully-constructed view of the artifact catalogs.
// The store publishes snapshots atomically; readers never observe a
// partially-built one.
type Snapshot struct {
	Catalogs  Catalogs
	FetchedAt time.Time
	ETag      string // validation token from the last successful tag listing
	Source    Source
}

// Catalog returns the catalog for a platform, which may be empty but never nil.
func (s *Snapshot) Catalog(p Platform) Catalog {
	if c, ok := s.Catalogs[p]; ok {
		return c
	}
	return Catalog{}
}

// Count returns the total number of artifacts across all platforms.
func (s *Snapshot) Count() int {
	n := 0
	for _, c := range s.Catalogs {
		n += len(c)
	}
	return n
}

// RemoteTag is an upstream version tag paired with its commit SHA,
// consumed once per sync cycle.
type RemoteTag struct {
	Version string // extracted numeric build identifier
	SHA     string
}
