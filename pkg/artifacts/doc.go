// Package artifacts implements the FXServer build-artifact catalog:
// discovery of version tags from the upstream repository, commit enrichment
// under a wall-clock budget, support-lifecycle classification, a process-wide
// synchronization store with a freshness window, a hard-coded fallback
// dataset, and the filter/sort/paginate query engine the API serves from.
//
// The package is organized around a small pipeline:
//
//	Discovery → Enrichment → Classification → Store.Publish
//
// driven lazily by [Store.Ensure]: queries read whatever snapshot is
// currently published and only the first query past the freshness window
// pays for a refresh. Readers never block on a refresh in flight.
package artifacts
