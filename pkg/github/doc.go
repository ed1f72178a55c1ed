// Package github provides a rate-limit-aware client for the GitHub REST API.
//
// The client tracks the upstream quota from x-ratelimit-* response headers
// and publishes it as an atomic snapshot so callers can pre-empt requests
// that would fail. It supports conditional requests (If-None-Match / 304)
// and Link-header pagination metadata, and distinguishes four failure
// classes: authentication (fatal), not-found (skippable), rate-limit
// rejection (retryable), and transient network/5xx errors (retryable).
//
// Only the read-only endpoints this application consumes are wrapped:
// list-tags-by-page and get-commit-by-SHA.
package github
