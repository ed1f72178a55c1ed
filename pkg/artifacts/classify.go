package artifacts

import "time"

// Support windows applied by the classifier.
const (
	recommendedSupport = 6 * 7 * 24 * time.Hour // six weeks past the next release
	standardSupport    = 2 * 7 * 24 * time.Hour // two weeks past the next release
)

// Classify derives support-lifecycle labels for every artifact in the
// catalog and returns a new catalog; the input is not modified.
//
// Versions are ordered numerically descending. The second-newest version is
// recommended (the newest when only one exists) and supported for six weeks
// after the next-newer release; the newest is latest; everything else is
// active, supported for two weeks after the next-newer release. The
// reference point for a version's support window is the publish time of the
// version immediately newer than it, or now for the newest. Any version
// whose support window has already elapsed is reclassified eol.
//
// The result depends only on the sorted versions, their publish timestamps,
// and now; calling twice with the same inputs yields identical output.
func Classify(c Catalog, now time.Time) Catalog {
	versions := sortedVersionsDesc(c)
	out := make(Catalog, len(c))

	var recommendedVersion string
	if len(versions) >= 2 {
		recommendedVersion = versions[1]
	} else if len(versions) == 1 {
		recommendedVersion = versions[0]
	}

	for i, version := range versions {
		artifact := c[version]

		nextRelease := now
		if i > 0 {
			nextRelease = c[versions[i-1]].PublishedAt
		}

		var status SupportStatus
		var supportEnds time.Time
		switch {
		case version == recommendedVersion:
			status = StatusRecommended
			supportEnds = nextRelease.Add(recommendedSupport)
		case i == 0:
			status = StatusLatest
			supportEnds = nextRelease.Add(standardSupport)
		default:
			status = StatusActive
			supportEnds = nextRelease.Add(standardSupport)
		}

		if supportEnds.Before(now) {
			status = StatusEOL
		}

		artifact.Recommended = version == recommendedVersion
		artifact.SupportStatus = status
		artifact.SupportEnds = supportEnds
		artifact.EOL = status == StatusEOL
		out[version] = artifact
	}

	return out
}
