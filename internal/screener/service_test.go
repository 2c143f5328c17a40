// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/partlens/internal/cache"
	"github.com/meshintel/partlens/pkg/types"
)

func testCacheConfig(t *testing.T) types.CacheConfig {
	t.Helper()
	return types.CacheConfig{
		Path:           filepath.Join(t.TempDir(), "cache.db"),
		TTL:            24 * time.Hour,
		ThrottleWindow: 5 * time.Minute,
	}
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cacheCfg := testCacheConfig(t)
	store, err := cache.NewStore(cacheCfg)
	if err != nil {
		t.Fatalf("cache.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc, err := NewService(testScreenerConfig(srv.URL), cacheCfg, store, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, &calls
}

func resultsHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"publication_number": "EP2987001", "title": "Turbocharger Bearing",
			 "applicant": "Continental AG", "publication_date": "2022-11-03", "score": 0.9}
		]}`))
	})
}

func TestAnalyzeSuccess(t *testing.T) {
	svc, calls := newTestService(t, resultsHandler(t))

	result := svc.Analyze(context.Background(), "Turbocharger", "exhaust-driven turbocharger", "REF-A")
	if !result.Success {
		t.Fatalf("Analyze failed: %s", result.Error)
	}
	if result.FromCache {
		t.Error("first analysis reported from_cache")
	}
	if result.PatentCount != 1 || len(result.Patents) != 1 {
		t.Fatalf("patent count = %d, want 1", result.PatentCount)
	}
	if result.Patents[0].RelevanceScore != 0.9 {
		t.Errorf("relevance = %v, want 0.9", result.Patents[0].RelevanceScore)
	}
	if result.ComponentName != "Turbocharger" {
		t.Errorf("component name = %q", result.ComponentName)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestAnalyzeRepeatServedFromCache(t *testing.T) {
	svc, calls := newTestService(t, resultsHandler(t))

	first := svc.Analyze(context.Background(), "Turbocharger", "exhaust-driven turbocharger", "REF-A")
	if !first.Success {
		t.Fatalf("first Analyze failed: %s", first.Error)
	}
	after := calls.Load()

	second := svc.Analyze(context.Background(), "Turbocharger", "exhaust-driven turbocharger", "REF-A")
	if !second.Success {
		t.Fatalf("second Analyze failed: %s", second.Error)
	}
	if !second.FromCache {
		t.Error("repeat analysis not served from cache")
	}
	if second.PatentCount != first.PatentCount {
		t.Errorf("cached count = %d, want %d", second.PatentCount, first.PatentCount)
	}
	if got := calls.Load(); got != after {
		t.Errorf("repeat analysis made %d extra upstream calls", got-after)
	}
}

func TestAnalyzeDistinctQueryNotThrottled(t *testing.T) {
	svc, _ := newTestService(t, resultsHandler(t))

	first := svc.Analyze(context.Background(), "Turbocharger", "exhaust-driven turbocharger", "REF-A")
	if !first.Success {
		t.Fatalf("first Analyze failed: %s", first.Error)
	}

	// A different description is a different fingerprint: neither the
	// cache hit nor the throttle from the first query may apply.
	other := svc.Analyze(context.Background(), "Turbocharger", "variable-geometry turbocharger", "REF-A")
	if !other.Success {
		t.Fatalf("distinct Analyze failed: %s", other.Error)
	}
	if other.FromCache {
		t.Error("distinct query served from cache")
	}
	if other.Throttled {
		t.Error("distinct query throttled")
	}
}

func TestAnalyzeAuthFailureCachesNothing(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	result := svc.Analyze(context.Background(), "Camshaft", "hollow camshaft", "REF-D")
	if result.Success {
		t.Fatal("Analyze succeeded against an all-401 upstream")
	}
	if result.ErrorType != types.ErrAuthentication {
		t.Errorf("error type = %s, want %s", result.ErrorType, types.ErrAuthentication)
	}

	// The failure must not be cached as a result. It is throttled, so
	// check the cache directly rather than re-analyzing.
	fp := Fingerprint("Camshaft", "hollow camshaft", "REF-D")
	_, ok, err := svc.cache.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("cache.Get: %v", err)
	}
	if ok {
		t.Error("failed analysis was cached")
	}
}

func TestAnalyzeFailedAttemptThrottlesRepeat(t *testing.T) {
	svc, calls := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	first := svc.Analyze(context.Background(), "Injector", "piezo fuel injector", "REF")
	if first.Success {
		t.Fatal("Analyze succeeded against an all-401 upstream")
	}
	after := calls.Load()

	second := svc.Analyze(context.Background(), "Injector", "piezo fuel injector", "REF")
	if !second.Throttled {
		t.Error("immediate repeat after failure not throttled")
	}
	if second.ErrorType != types.ErrThrottled {
		t.Errorf("error type = %s, want %s", second.ErrorType, types.ErrThrottled)
	}
	if second.RetryAfter != int((5 * time.Minute).Seconds()) {
		t.Errorf("retry_after = %d, want %d", second.RetryAfter, 300)
	}
	if got := calls.Load(); got != after {
		t.Errorf("throttled analysis made %d upstream calls", got-after)
	}
}

func TestAnalyzeSessionFollowUp(t *testing.T) {
	svc, calls := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if r.URL.Query().Get("token") != "sess-99" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"results": [{"title": "Clutch Plate Assembly", "score": 0.7}]}`))
			return
		}
		w.Write([]byte(`{"data": {"token": "sess-99"}}`))
	}))

	result := svc.Analyze(context.Background(), "Clutch", "dual-mass clutch", "REF")
	if !result.Success {
		t.Fatalf("Analyze failed: %s", result.Error)
	}
	if result.PatentCount != 1 {
		t.Fatalf("patent count = %d, want 1", result.PatentCount)
	}
	if result.Patents[0].Title != "Clutch Plate Assembly" {
		t.Errorf("title = %q", result.Patents[0].Title)
	}
	// One submission plus one results fetch.
	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestAnalyzeValidationSkipsUpstream(t *testing.T) {
	svc, calls := newTestService(t, resultsHandler(t))

	tests := []struct {
		name        string
		component   string
		description string
	}{
		{"empty name", "", "some description"},
		{"empty description", "Gearbox", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Analyze(context.Background(), tt.component, tt.description, "REF")
			if result.Success {
				t.Fatal("Analyze succeeded on invalid input")
			}
			if result.ErrorType != types.ErrValidation {
				t.Errorf("error type = %s, want %s", result.ErrorType, types.ErrValidation)
			}
			if calls.Load() != 0 {
				t.Error("invalid input reached the upstream")
			}
		})
	}
}

func TestAnalyzeEmptyResultListSucceeds(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))

	result := svc.Analyze(context.Background(), "Washer", "flat washer", "REF")
	if !result.Success {
		t.Fatalf("Analyze failed: %s", result.Error)
	}
	if result.PatentCount != 0 {
		t.Errorf("patent count = %d, want 0", result.PatentCount)
	}
}

func TestServiceStatus(t *testing.T) {
	svc, _ := newTestService(t, resultsHandler(t))

	status := svc.Status()
	if !status.Configured {
		t.Error("status not configured despite data key")
	}
	if status.CacheTTLHours != 24 {
		t.Errorf("cache ttl hours = %d, want 24", status.CacheTTLHours)
	}
	if status.ThrottleMinutes != 5 {
		t.Errorf("throttle minutes = %d, want 5", status.ThrottleMinutes)
	}
	if status.Mode != "live_api" {
		t.Errorf("mode = %q, want live_api", status.Mode)
	}
}

func TestServiceClearCache(t *testing.T) {
	svc, calls := newTestService(t, resultsHandler(t))

	if result := svc.Analyze(context.Background(), "Seal", "radial shaft seal", "REF"); !result.Success {
		t.Fatalf("Analyze failed: %s", result.Error)
	}
	if err := svc.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}

	// Clearing removes the throttle marker too, so a repeat goes back to
	// the upstream instead of the cache.
	before := calls.Load()
	result := svc.Analyze(context.Background(), "Seal", "radial shaft seal", "REF")
	if !result.Success {
		t.Fatalf("repeat Analyze failed: %s", result.Error)
	}
	if result.FromCache {
		t.Error("analysis served from cache after clear")
	}
	if calls.Load() != before+1 {
		t.Error("repeat after clear did not reach the upstream")
	}
}
