package artifacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fixfx/artifactd/pkg/cache"
	"github.com/fixfx/artifactd/pkg/github"
)

// testStore wires a store and syncer to the fake upstream with a settable
// clock.
func testStore(t *testing.T, u *upstream) (*Store, *time.Time) {
	t.Helper()
	s := newTestSyncer(t, u)

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	store := NewStore(s, nil)
	store.now = s.now
	return store, &clock
}

func TestStoreFreshnessWindow(t *testing.T) {
	tags, dates := sevenTags()
	u := &upstream{tags: tags, dates: dates, etag: `"abc"`, quota: "60"}
	store, _ := testStore(t, u)

	first := store.Ensure(context.Background())
	if first == nil || first.Source != SourceLive {
		t.Fatalf("first Ensure = %+v, want live snapshot", first)
	}
	second := store.Ensure(context.Background())
	if second != first {
		t.Error("fresh snapshot was not reused")
	}
	if got := u.tagCalls.Load(); got != 1 {
		t.Errorf("tag list calls = %d, want 1 inside the freshness window", got)
	}
	if !store.Fresh() {
		t.Error("Fresh() = false right after a sync")
	}
}

func TestStoreRevalidatesAfterWindow(t *testing.T) {
	tags, dates := sevenTags()
	u := &upstream{tags: tags, dates: dates, etag: `"abc"`, quota: "60"}
	store, clock := testStore(t, u)

	first := store.Ensure(context.Background())

	*clock = clock.Add(FreshnessWindow + time.Minute)
	if store.Fresh() {
		t.Error("Fresh() = true past the window")
	}

	// Upstream is unchanged, so revalidation answers 304 and the previous
	// snapshot stays published.
	second := store.Ensure(context.Background())
	if second != first {
		t.Error("304 revalidation should keep the previous snapshot")
	}
	if got := u.tagCalls.Load(); got != 2 {
		t.Errorf("tag list calls = %d, want 2 after revalidation", got)
	}
	if got := u.commitCalls.Load(); got != 6 {
		t.Errorf("commit calls = %d, want no enrichment after 304", got)
	}
}

func TestStoreFallbackOnEmptyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-remaining", "60")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := github.NewClient("", cache.NewNullCache(), github.WithBaseURL(srv.URL))
	syncer := NewSyncer(client, testRepo, nil)
	syncer.requestDelay = 0
	syncer.batchDelay = 0
	store := NewStore(syncer, nil)

	snap := store.Ensure(context.Background())
	if snap == nil {
		t.Fatal("Ensure returned nil")
	}
	if snap.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", snap.Source, SourceFallback)
	}
	if want := len(fallbackBuilds) * len(AllPlatforms); snap.Count() != want {
		t.Errorf("Count = %d, want full fallback dataset %d", snap.Count(), want)
	}

	// The fallback fill counts as fresh so repeated requests don't hammer a
	// failing upstream.
	if !store.Fresh() {
		t.Error("fallback fill should be fresh")
	}
	if store.Snapshot() != snap {
		t.Error("fallback snapshot was not published")
	}
}

func TestStoreAuthFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-remaining", "60")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := github.NewClient("expired", cache.NewNullCache(), github.WithBaseURL(srv.URL))
	syncer := NewSyncer(client, testRepo, nil)
	syncer.requestDelay = 0
	syncer.batchDelay = 0
	store := NewStore(syncer, nil)

	snap := store.Ensure(context.Background())
	if snap.Source != SourceFallback {
		t.Errorf("Source = %q, want fallback after auth failure", snap.Source)
	}
}

func TestStoreServesPreviousOnFailure(t *testing.T) {
	tags, dates := sevenTags()
	u := &upstream{tags: tags, dates: dates, quota: "60"}
	store, clock := testStore(t, u)

	first := store.Ensure(context.Background())
	if first.Source != SourceLive {
		t.Fatalf("first sync did not produce a live snapshot: %+v", first)
	}

	// Upstream starts failing; a stale store keeps serving the last good
	// snapshot instead of degrading to the fallback dataset.
	u.tags = nil
	*clock = clock.Add(FreshnessWindow + time.Minute)

	second := store.Ensure(context.Background())
	if second != first {
		t.Error("previous snapshot should be served when resync fails")
	}
}

func TestStoreConcurrentRefreshServesFallback(t *testing.T) {
	tags, dates := sevenTags()
	u := &upstream{tags: tags, dates: dates, quota: "60"}
	store, _ := testStore(t, u)

	// Simulate a refresh in flight before any snapshot exists: the caller
	// gets the fallback dataset but nothing is published.
	store.mu.Lock()
	store.refreshing = true
	store.mu.Unlock()

	snap := store.Ensure(context.Background())
	if snap == nil {
		t.Fatal("Ensure returned nil during concurrent refresh")
	}
	if snap.Source != SourceFallback {
		t.Errorf("Source = %q, want fallback placeholder", snap.Source)
	}
	if store.Snapshot() != nil {
		t.Error("placeholder fallback must not be published")
	}
}

func TestStoreSnapshotNilWhenEmpty(t *testing.T) {
	tags, dates := sevenTags()
	store, _ := testStore(t, &upstream{tags: tags, dates: dates, quota: "60"})

	if store.Snapshot() != nil {
		t.Error("empty store should report a nil snapshot")
	}
	if store.Fresh() {
		t.Error("empty store cannot be fresh")
	}
}
