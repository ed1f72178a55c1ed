package artifacts

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// tagVersionPattern extracts the numeric build identifier from upstream tag
// names like "v1.0.0.6683" or "v1.0.0-6683". Tags that don't match are
// silently dropped during discovery.
var tagVersionPattern = regexp.MustCompile(`v\d+\.\d+\.\d+[._-](\d+)`)

// VersionFromTag extracts the build number from a tag name.
// Returns ok=false when the tag doesn't follow the version pattern.
func VersionFromTag(name string) (string, bool) {
	m := tagVersionPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// versionNumber parses a version string as an integer for numeric ordering.
// Unparseable versions order as zero.
func versionNumber(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

// sortedVersionsDesc returns the catalog's versions in numeric descending
// order (newest first).
func sortedVersionsDesc(c Catalog) []string {
	versions := make([]string, 0, len(c))
	for v := range c {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versionNumber(versions[i]) > versionNumber(versions[j])
	})
	return versions
}

// Artifact download locations, one URL tree per platform build flavor.
const (
	windowsArtifactBase = "https://runtime.fivem.net/artifacts/fivem/build_server_windows/master"
	linuxArtifactBase   = "https://runtime.fivem.net/artifacts/fivem/build_proot_linux/master"
)

// NewArtifact builds a platform artifact for a version/commit pair.
// Windows builds ship as server.zip/server.7z; linux builds ship a single
// fx.tar.xz listed under both archive keys for client compatibility.
func NewArtifact(p Platform, version, sha string, publishedAt time.Time) Artifact {
	id := version + "-" + sha

	a := Artifact{
		Version:     version,
		PublishedAt: publishedAt,
	}
	switch p {
	case PlatformLinux:
		a.ArtifactURL = fmt.Sprintf("%s/%s", linuxArtifactBase, id)
		tar := a.ArtifactURL + "/fx.tar.xz"
		a.DownloadURLs = map[string]string{"zip": tar, "7z": tar}
	default:
		a.ArtifactURL = fmt.Sprintf("%s/%s", windowsArtifactBase, id)
		a.DownloadURLs = map[string]string{
			"zip": a.ArtifactURL + "/server.zip",
			"7z":  a.ArtifactURL + "/server.7z",
		}
	}
	return a
}
