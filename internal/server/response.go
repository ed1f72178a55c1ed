package server

import (
	"encoding/json"
	"net/http"

	"github.com/fixfx/artifactd/pkg/artifacts"
)

// Client-facing failure messages. Raw upstream errors never leak.
const (
	timeoutMessage       = "Request processing timed out. Please try again with fewer filters or a smaller dataset."
	internalErrorMessage = "Failed to retrieve artifacts data. Please try again later."
)

// Query kinds reported in metadata.
const (
	queryTypeListing       = "listing"
	queryTypeSingleVersion = "single_version"
)

// supportSchedule documents the lifecycle windows applied by the classifier.
var supportSchedule = map[string]string{
	"recommended": "6 weeks after next release",
	"latest":      "2 weeks after next release",
	"eol":         "3 months after release",
}

// supportStatusExplanation is a human-readable legend for every status the
// filter accepts, deprecated included.
var supportStatusExplanation = map[string]string{
	"recommended": "Fully supported, recommended for production use",
	"latest":      "Most recent build, supported for testing",
	"active":      "Currently supported",
	"deprecated":  "Support ended, but still usable",
	"eol":         "End of life, not supported and may be inaccessible from server browser",
	"info":        "https://aka.cfx.re/eol",
}

// listResponse is the artifact listing payload; the single-version variant
// reuses it with unit pagination and queryType single_version.
type listResponse struct {
	Data     map[artifacts.Platform]artifacts.Catalog `json:"data"`
	Metadata responseMetadata                         `json:"metadata"`
}

type responseMetadata struct {
	QueryType                string                                     `json:"queryType"`
	Platforms                []artifacts.Platform                       `json:"platforms"`
	Recommended              map[artifacts.Platform]*artifacts.Artifact `json:"recommended,omitempty"`
	Latest                   map[artifacts.Platform]*artifacts.Artifact `json:"latest,omitempty"`
	Stats                    map[artifacts.Platform]artifacts.Stats     `json:"stats,omitempty"`
	Pagination               artifacts.Pagination                       `json:"pagination"`
	Filters                  filterEcho                                 `json:"filters"`
	SupportSchedule          map[string]string                          `json:"supportSchedule"`
	SupportStatusExplanation map[string]string                          `json:"supportStatusExplanation"`
	Source                   artifacts.Source                           `json:"source"`
}

// filterEcho mirrors the effective (normalized) query parameters back to
// the client.
type filterEcho struct {
	Platform   string `json:"platform,omitempty"`
	Version    string `json:"version,omitempty"`
	Status     string `json:"status,omitempty"`
	IncludeEOL bool   `json:"includeEol"`
	SortBy     string `json:"sortBy,omitempty"`
	SortOrder  string `json:"sortOrder,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
