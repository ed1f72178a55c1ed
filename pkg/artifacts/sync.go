package artifacts

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fixfx/artifactd/pkg/github"
	"github.com/fixfx/artifactd/pkg/observability"
)

// Sync tunables. These track the upstream's abuse-detection thresholds and
// the serverless budget the original deployment ran under; they are
// conservative on purpose.
const (
	// MaxArtifacts bounds how many versions a sync cycle may produce.
	MaxArtifacts = 20

	// SyncBudget is the wall-clock ceiling for one refresh cycle, leaving a
	// buffer below the query façade's 10 second timeout.
	SyncBudget = 8 * time.Second

	tagPageSize  = 50
	batchSize    = 2
	minArtifacts = 5

	requestDelay = time.Second
	batchDelay   = 2 * time.Second

	// Quota floors: below these remaining-request counts the corresponding
	// stage stops early instead of attempting calls that would fail.
	discoveryQuotaFloor = 10
	pageQuotaFloor      = 5
	commitQuotaFloor    = 2
)

// errNoTags signals that discovery produced nothing; the store decides
// between keeping the previous snapshot and applying the fallback dataset.
var errNoTags = errors.New("no tags discovered")

// errNotModified signals that the upstream tag list is unchanged since the
// supplied validation token; the previous snapshot remains authoritative.
var errNotModified = errors.New("tag list not modified")

// Syncer runs one synchronization cycle: tag discovery, commit enrichment,
// and support-status classification.
type Syncer struct {
	client *github.Client
	repo   string
	logger *log.Logger

	// delay can be shortened in tests; production uses requestDelay/batchDelay.
	requestDelay time.Duration
	batchDelay   time.Duration

	now func() time.Time
}

// NewSyncer creates a Syncer for the given upstream repo ("owner/name").
// Pass a nil logger to silence progress output.
func NewSyncer(client *github.Client, repo string, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Syncer{
		client:       client,
		repo:         repo,
		logger:       logger,
		requestDelay: requestDelay,
		batchDelay:   batchDelay,
		now:          time.Now,
	}
}

// Run executes a full sync cycle under SyncBudget. etag is the validation
// token from the previous successful cycle ("" for none).
//
// On success it returns a complete, classified snapshot. It returns
// errNotModified when upstream reports no tag changes, errNoTags when
// discovery yields nothing, and github.ErrAuth (wrapped) when the cycle must
// abort; in all three cases no snapshot is produced and the caller falls
// back to the previous cache or the fallback dataset.
func (s *Syncer) Run(ctx context.Context, etag string) (*Snapshot, error) {
	start := s.now()
	ctx, cancel := context.WithDeadline(ctx, start.Add(SyncBudget))
	defer cancel()

	observability.Sync().OnSyncStart(ctx)

	tags, newETag, err := s.discoverTags(ctx, etag)
	if err != nil {
		observability.Sync().OnSyncComplete(ctx, 0, s.now().Sub(start), err)
		return nil, err
	}
	if len(tags) == 0 {
		observability.Sync().OnSyncComplete(ctx, 0, s.now().Sub(start), errNoTags)
		return nil, errNoTags
	}
	s.logger.Debug("discovered tags", "count", len(tags))

	catalogs := s.enrich(ctx, tags)
	produced := 0
	for _, c := range catalogs {
		produced += len(c)
	}
	if produced == 0 {
		observability.Sync().OnSyncComplete(ctx, 0, s.now().Sub(start), errNoTags)
		return nil, errNoTags
	}

	now := s.now()
	for p, c := range catalogs {
		catalogs[p] = Classify(c, now)
	}

	snap := &Snapshot{
		Catalogs:  catalogs,
		FetchedAt: now,
		ETag:      newETag,
		Source:    SourceLive,
	}
	observability.Sync().OnSyncComplete(ctx, produced, now.Sub(start), nil)
	s.logger.Info("sync complete", "artifacts", produced, "elapsed", now.Sub(start).Round(time.Millisecond))
	return snap, nil
}
