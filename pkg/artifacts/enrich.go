package artifacts

import (
	"context"
	"errors"

	"github.com/fixfx/artifactd/pkg/github"
	"github.com/fixfx/artifactd/pkg/httputil"
	"github.com/fixfx/artifactd/pkg/observability"
)

// enrich resolves publish timestamps for as many tags as time and quota
// allow, in input order, and materializes one artifact per platform for
// each. It stops early when the context deadline fires, the quota drops
// below commitQuotaFloor, a rate-limit error occurs mid-batch, or
// minArtifacts have been produced. Partial results are valid.
func (s *Syncer) enrich(ctx context.Context, tags []RemoteTag) Catalogs {
	catalogs := Catalogs{PlatformWindows: Catalog{}, PlatformLinux: Catalog{}}
	produced := 0

batches:
	for i := 0; i < len(tags); i += batchSize {
		if ctx.Err() != nil {
			s.logger.Warn("enrichment budget elapsed, using partial result", "produced", produced)
			break
		}
		if remaining := s.client.RateLimit().Remaining; remaining < batchSize {
			observability.Sync().OnQuotaGuard(ctx, "enrichment", remaining)
			s.logger.Warn("quota too low for batch", "remaining", remaining)
			break
		}

		batch := tags[i:min(i+batchSize, len(tags))]
		for _, tag := range batch {
			if ctx.Err() != nil {
				break batches
			}
			if remaining := s.client.RateLimit().Remaining; remaining < commitQuotaFloor {
				observability.Sync().OnQuotaGuard(ctx, "enrichment", remaining)
				break batches
			}
			if err := httputil.Sleep(ctx, s.requestDelay); err != nil {
				break batches
			}

			publishedAt, err := s.client.CommitDate(ctx, s.repo, tag.SHA)
			if err != nil {
				if github.IsRateLimited(err) {
					s.logger.Warn("rate limited during enrichment, using partial result", "produced", produced)
					break batches
				}
				if errors.Is(err, github.ErrAuth) {
					break batches
				}
				// One bad tag never fails the batch.
				s.logger.Warn("commit lookup failed, skipping tag", "version", tag.Version, "err", err)
				continue
			}

			for _, p := range AllPlatforms {
				catalogs[p][tag.Version] = NewArtifact(p, tag.Version, tag.SHA, publishedAt)
			}
			produced++
		}

		if produced >= minArtifacts {
			s.logger.Debug("enriched enough artifacts, stopping early", "produced", produced)
			break
		}
		if i+batchSize < len(tags) {
			if err := httputil.Sleep(ctx, s.batchDelay); err != nil {
				break
			}
		}
	}

	return catalogs
}
