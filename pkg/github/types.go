package github

import "time"

// Tag is one entry of the list-tags endpoint.
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// TagsPage is one page of tag results plus the pagination and revalidation
// metadata callers need to continue or short-circuit.
type TagsPage struct {
	Tags        []Tag  // decoded page body; nil when NotModified
	ETag        string // validation token for conditional re-requests
	LastPage    int    // rel="last" page number from the Link header, 0 if absent
	NotModified bool   // upstream replied 304 to the supplied etag
}

// commitResponse mirrors the subset of the get-commit endpoint we consume.
type commitResponse struct {
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}
