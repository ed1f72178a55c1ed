package artifacts

import (
	"context"
	"errors"
	"sort"

	"github.com/fixfx/artifactd/pkg/github"
	"github.com/fixfx/artifactd/pkg/httputil"
	"github.com/fixfx/artifactd/pkg/observability"
)

// discoverTags retrieves version tags page by page, bounded by MaxArtifacts
// and guarded by the remaining upstream quota. The returned tags are
// filtered to valid version names, sorted numerically descending, and
// truncated to MaxArtifacts.
//
// Returns errNotModified when upstream answers 304 to the supplied etag.
// A rate-limited or failed first page is retried with exponential backoff;
// failures on later pages truncate the result instead of failing the cycle.
func (s *Syncer) discoverTags(ctx context.Context, etag string) ([]RemoteTag, string, error) {
	if remaining := s.client.RateLimit().Remaining; remaining < discoveryQuotaFloor {
		observability.Sync().OnQuotaGuard(ctx, "discovery", remaining)
		s.logger.Warn("quota too low for discovery", "remaining", remaining)
		return nil, "", errNoTags
	}

	var first *github.TagsPage
	err := httputil.DefaultPolicy().Do(ctx, func() error {
		page, err := s.client.ListTags(ctx, s.repo, 1, tagPageSize, etag)
		if err != nil {
			return err
		}
		first = page
		return nil
	})
	if err != nil {
		if errors.Is(err, github.ErrAuth) {
			return nil, "", err
		}
		s.logger.Warn("tag discovery failed", "err", err)
		return nil, "", errNoTags
	}
	if first.NotModified {
		return nil, etag, errNotModified
	}

	all := first.Tags

	// Only page further if the first page can't cover MaxArtifacts.
	if len(all) < MaxArtifacts && first.LastPage > 1 {
		lastPage := min(first.LastPage, (MaxArtifacts+tagPageSize-1)/tagPageSize)

		for page := 2; page <= lastPage && len(all) < MaxArtifacts; page++ {
			if remaining := s.client.RateLimit().Remaining; remaining < pageQuotaFloor {
				observability.Sync().OnQuotaGuard(ctx, "pagination", remaining)
				s.logger.Warn("quota too low for pagination", "remaining", remaining, "page", page)
				break
			}
			if err := httputil.Sleep(ctx, s.requestDelay); err != nil {
				break
			}

			next, err := s.client.ListTags(ctx, s.repo, page, tagPageSize, "")
			if err != nil {
				s.logger.Warn("tag page fetch failed, using partial result", "page", page, "err", err)
				break
			}
			all = append(all, next.Tags...)
		}
	}

	return selectVersionTags(all), first.ETag, nil
}

// selectVersionTags filters tags to those carrying a version number, sorts
// them newest first, and truncates to MaxArtifacts.
func selectVersionTags(tags []github.Tag) []RemoteTag {
	remote := make([]RemoteTag, 0, len(tags))
	for _, t := range tags {
		version, ok := VersionFromTag(t.Name)
		if !ok {
			continue
		}
		remote = append(remote, RemoteTag{Version: version, SHA: t.Commit.SHA})
	}

	sort.Slice(remote, func(i, j int) bool {
		return versionNumber(remote[i].Version) > versionNumber(remote[j].Version)
	})
	if len(remote) > MaxArtifacts {
		remote = remote[:MaxArtifacts]
	}
	return remote
}
