package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fixfx/artifactd/pkg/artifacts"
	"github.com/fixfx/artifactd/pkg/buildinfo"
	apperrors "github.com/fixfx/artifactd/pkg/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"fresh":   s.store.Fresh(),
	})
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	opts, version, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.UserMessage(err))
		return
	}

	// Exact-version lookups against a fresh cache skip the refresh check
	// entirely.
	var snap *artifacts.Snapshot
	if version != "" && s.store.Fresh() {
		snap = s.store.Snapshot()
	} else {
		var ok bool
		if snap, ok = s.ensureSnapshot(r.Context()); !ok {
			writeError(w, http.StatusGatewayTimeout, timeoutMessage)
			return
		}
	}

	if version != "" {
		s.respondVersion(w, snap, version, opts)
		return
	}
	s.respondListing(w, snap, opts)
}

func (s *Server) respondVersion(w http.ResponseWriter, snap *artifacts.Snapshot, version string, opts artifacts.Options) {
	res, found := artifacts.QueryVersion(snap, version, opts.Platform)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Version %s not found", version))
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: res.Data,
		Metadata: responseMetadata{
			QueryType:  queryTypeSingleVersion,
			Platforms:  res.Platforms,
			Pagination: res.Pagination,
			Filters: filterEcho{
				Platform: string(opts.Platform),
				Version:  version,
			},
			SupportSchedule:          supportSchedule,
			SupportStatusExplanation: supportStatusExplanation,
			Source:                   res.Source,
		},
	})
}

func (s *Server) respondListing(w http.ResponseWriter, snap *artifacts.Snapshot, opts artifacts.Options) {
	res := artifacts.Query(snap, opts)

	writeJSON(w, http.StatusOK, listResponse{
		Data: res.Data,
		Metadata: responseMetadata{
			QueryType:   queryTypeListing,
			Platforms:   res.Platforms,
			Recommended: res.Recommended,
			Latest:      res.Latest,
			Stats:       res.Stats,
			Pagination:  res.Pagination,
			Filters: filterEcho{
				Platform:   string(opts.Platform),
				Status:     string(opts.Status),
				IncludeEOL: opts.IncludeEOL,
				SortBy:     opts.SortBy,
				SortOrder:  opts.SortOrder,
				Limit:      res.Pagination.Limit,
				Offset:     res.Pagination.Offset,
			},
			SupportSchedule:          supportSchedule,
			SupportStatusExplanation: supportStatusExplanation,
			Source:                   res.Source,
		},
	})
}

// ensureSnapshot races the store's refresh against the request budget.
// ok is false when the budget elapsed first.
func (s *Server) ensureSnapshot(ctx context.Context) (*artifacts.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	done := make(chan *artifacts.Snapshot, 1)
	go func() { done <- s.store.Ensure(ctx) }()

	select {
	case snap := <-done:
		return snap, true
	case <-ctx.Done():
		return nil, false
	}
}

// parseQuery validates and normalizes the request parameters. version is
// returned separately; when non-empty the single-version variant applies.
func parseQuery(r *http.Request) (artifacts.Options, string, error) {
	q := r.URL.Query()
	opts := artifacts.DefaultOptions()

	rawPlatform := q.Get("platform")
	if err := apperrors.ValidatePlatform(rawPlatform); err != nil {
		return opts, "", err
	}
	if p, ok := artifacts.ParsePlatform(rawPlatform); ok {
		opts.Platform = p
	}

	version := q.Get("version")
	if version != "" {
		if err := apperrors.ValidateVersion(version); err != nil {
			return opts, "", err
		}
	}

	limit, err := apperrors.ParseBoundedInt(q.Get("limit"), artifacts.DefaultLimit, artifacts.MaxLimit)
	if err != nil {
		return opts, "", err
	}
	opts.Limit = limit

	offset, err := apperrors.ParseBoundedInt(q.Get("offset"), 0, 0)
	if err != nil {
		return opts, "", err
	}
	opts.Offset = offset

	if raw := q.Get("sortBy"); raw != "" {
		opts.SortBy = raw
	}
	if raw := q.Get("sortOrder"); raw != "" {
		opts.SortOrder = raw
	}
	if err := apperrors.ValidateSort(opts.SortBy, opts.SortOrder); err != nil {
		return opts, "", err
	}

	status := q.Get("status")
	if err := apperrors.ValidateStatus(status); err != nil {
		return opts, "", err
	}
	opts.Status = artifacts.SupportStatus(status)

	opts.IncludeEOL = q.Get("includeEol") == "true"
	return opts, version, nil
}
