package artifacts

import "sort"

// Pagination limits enforced server-side regardless of caller input.
const (
	MaxLimit     = 20
	DefaultLimit = 10
)

// Options are the query parameters accepted by the artifact listing.
// The zero value is not useful; start from DefaultOptions.
type Options struct {
	Platform   Platform      // "" = all platforms
	Limit      int           // clamped to [1, MaxLimit]
	Offset     int           // window start; past-the-end yields an empty window
	IncludeEOL bool          // include end-of-life entries
	SortBy     string        // "version" or "date"
	SortOrder  string        // "asc" or "desc"
	Status     SupportStatus // "" = no status filter
}

// DefaultOptions returns the documented parameter defaults.
func DefaultOptions() Options {
	return Options{
		Limit:     DefaultLimit,
		SortBy:    "version",
		SortOrder: "desc",
	}
}

// normalized clamps and defaults the options in place of rejecting them.
func (o Options) normalized() Options {
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.SortBy != "date" {
		o.SortBy = "version"
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// platforms returns the platform set the options select.
func (o Options) platforms() []Platform {
	if o.Platform != "" {
		return []Platform{o.Platform}
	}
	return AllPlatforms
}

// Stats aggregates one platform's catalog by support status. Counts are
// computed over the unfiltered catalog; Filtered reflects the query's
// filter result before pagination.
type Stats struct {
	Total       int `json:"total"`
	Filtered    int `json:"filtered"`
	Recommended int `json:"recommended"`
	Latest      int `json:"latest"`
	Active      int `json:"active"`
	Deprecated  int `json:"deprecated"`
	EOL         int `json:"eol"`
}

// Pagination describes the returned window.
type Pagination struct {
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	Filtered    int `json:"filtered"`
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// Result is a windowed, filtered view over a snapshot plus aggregate
// metadata.
type Result struct {
	Data        map[Platform]Catalog
	Platforms   []Platform
	Recommended map[Platform]*Artifact
	Latest      map[Platform]*Artifact
	Stats       map[Platform]Stats
	Pagination  Pagination
	Source      Source
}

// Query evaluates opts against a snapshot: per selected platform it filters
// out eol entries (unless requested) and non-matching statuses, sorts by
// version or publish date, and slices the [offset, offset+limit) window.
// Aggregate stats always cover the unfiltered catalog.
func Query(snap *Snapshot, opts Options) *Result {
	opts = opts.normalized()
	platforms := opts.platforms()

	res := &Result{
		Data:        map[Platform]Catalog{},
		Platforms:   platforms,
		Recommended: map[Platform]*Artifact{},
		Latest:      map[Platform]*Artifact{},
		Stats:       map[Platform]Stats{},
		Source:      snap.Source,
	}

	filteredCounts := map[Platform]int{}
	for _, p := range platforms {
		catalog := snap.Catalog(p)

		filtered := make([]Artifact, 0, len(catalog))
		for version, a := range catalog {
			if a.EOL && !opts.IncludeEOL {
				continue
			}
			if opts.Status != "" && a.SupportStatus != opts.Status {
				continue
			}
			a.Version = version
			filtered = append(filtered, a)
		}
		sortArtifacts(filtered, opts.SortBy, opts.SortOrder)
		filteredCounts[p] = len(filtered)

		res.Data[p] = window(filtered, opts.Offset, opts.Limit)
		res.Stats[p] = catalogStats(catalog, len(filtered))
		res.Recommended[p], res.Latest[p] = catalogHighlights(catalog)
	}

	// Pagination reflects the requested platform; windows when both are
	// selected, mirroring the public API's historical behavior.
	pagPlatform := opts.Platform
	if pagPlatform == "" {
		pagPlatform = PlatformWindows
	}
	filtered := filteredCounts[pagPlatform]
	res.Pagination = Pagination{
		Limit:       opts.Limit,
		Offset:      opts.Offset,
		Filtered:    filtered,
		Total:       res.Stats[pagPlatform].Total,
		CurrentPage: opts.Offset/opts.Limit + 1,
		TotalPages:  (filtered + opts.Limit - 1) / opts.Limit,
	}
	return res
}

// QueryVersion is the exact-match fast path: it returns the single matching
// entry per selected platform directly from the snapshot, bypassing
// filter/sort/paginate. found is false when no platform carries the version.
func QueryVersion(snap *Snapshot, version string, platform Platform) (*Result, bool) {
	opts := Options{Platform: platform}
	platforms := opts.platforms()

	res := &Result{
		Data:      map[Platform]Catalog{},
		Platforms: platforms,
		Source:    snap.Source,
		Pagination: Pagination{
			Limit: 1, Filtered: 1, Total: 1, CurrentPage: 1, TotalPages: 1,
		},
	}

	found := false
	for _, p := range platforms {
		res.Data[p] = Catalog{}
		if a, ok := snap.Catalog(p)[version]; ok {
			a.Version = version
			res.Data[p][version] = a
			found = true
		}
	}
	return res, found
}

func sortArtifacts(list []Artifact, sortBy, sortOrder string) {
	asc := sortOrder == "asc"
	sort.Slice(list, func(i, j int) bool {
		if sortBy == "date" {
			if asc {
				return list[i].PublishedAt.Before(list[j].PublishedAt)
			}
			return list[j].PublishedAt.Before(list[i].PublishedAt)
		}
		if asc {
			return versionNumber(list[i].Version) < versionNumber(list[j].Version)
		}
		return versionNumber(list[i].Version) > versionNumber(list[j].Version)
	})
}

func window(list []Artifact, offset, limit int) Catalog {
	out := Catalog{}
	if offset >= len(list) {
		return out
	}
	end := min(offset+limit, len(list))
	for _, a := range list[offset:end] {
		out[a.Version] = a
	}
	return out
}

func catalogStats(c Catalog, filtered int) Stats {
	stats := Stats{Total: len(c), Filtered: filtered}
	for _, a := range c {
		switch a.SupportStatus {
		case StatusRecommended:
			stats.Recommended++
		case StatusLatest:
			stats.Latest++
		case StatusActive:
			stats.Active++
		case StatusDeprecated:
			stats.Deprecated++
		}
		if a.EOL {
			stats.EOL++
		}
	}
	return stats
}

// catalogHighlights extracts the recommended and latest entries from the
// unfiltered catalog. The newest version is always reported as latest even
// if its classified status has aged to eol.
func catalogHighlights(c Catalog) (recommended, latest *Artifact) {
	versions := sortedVersionsDesc(c)
	if len(versions) == 0 {
		return nil, nil
	}

	newest := c[versions[0]]
	newest.Version = versions[0]
	newest.SupportStatus = StatusLatest
	latest = &newest

	for _, v := range versions {
		if a := c[v]; a.SupportStatus == StatusRecommended {
			a.Version = v
			recommended = &a
			break
		}
	}
	return recommended, latest
}
