// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/partlens/pkg/types"
)

// Cache is the persistence contract the service relies on. Implemented by
// the sqlite store; tests use an in-memory file. All operations are keyed
// by query fingerprint.
type Cache interface {
	// Get returns the cached result for fp when present and fresh.
	Get(ctx context.Context, fp string) (types.AnalysisResult, bool, error)

	// Put stores a successful result under fp, overwriting any prior entry.
	Put(ctx context.Context, fp string, result types.AnalysisResult) error

	// MarkAttempt records that an upstream call for fp is starting.
	MarkAttempt(ctx context.Context, fp string) error

	// IsThrottled reports whether fp was attempted within the throttle
	// window, regardless of cache freshness.
	IsThrottled(ctx context.Context, fp string) (bool, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}

// Service is the public entry point for component screening. It ties
// fingerprinting, cache lookup, throttling, the upstream client, and
// normalization into one operation with a uniform result contract.
type Service struct {
	client   *Client
	cache    Cache
	cacheCfg types.CacheConfig
	cfg      types.ScreenerConfig
	logger   *zap.Logger
}

// NewService constructs the screening service. Construction fails only on
// configuration errors (missing API key).
func NewService(cfg types.ScreenerConfig, cacheCfg types.CacheConfig, cache Cache, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		client:   client,
		cache:    cache,
		cacheCfg: cacheCfg,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Analyze screens a component against the upstream patent service. The
// result is always well-formed: every failure is folded into Success
// false with an ErrorType, and no typed error crosses this boundary.
//
// At most one upstream round trip happens per non-cached, non-throttled
// call, plus a single results follow-up when the upstream hands back a
// session token without inline results. There is no polling loop: the
// submission response is treated as final whenever it carries results.
func (s *Service) Analyze(ctx context.Context, componentName, componentDescription, reference string) types.AnalysisResult {
	query := types.QueryInfo{Title: componentName, Summary: componentDescription, Reference: reference}

	if componentName == "" || componentDescription == "" {
		return s.failure(query, apiErrorf(types.ErrValidation,
			"component name and description are required"))
	}

	fp := Fingerprint(componentName, componentDescription, reference)

	cached, ok, err := s.cache.Get(ctx, fp)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("fingerprint", fp), zap.Error(err))
	}
	if ok {
		s.logger.Info("returning cached result",
			zap.String("component", componentName), zap.Int("patents", cached.PatentCount))
		cached.FromCache = true
		return cached
	}

	throttled, err := s.cache.IsThrottled(ctx, fp)
	if err != nil {
		s.logger.Warn("throttle check failed", zap.String("fingerprint", fp), zap.Error(err))
	}
	if throttled {
		window := s.cacheCfg.ThrottleWindow
		s.logger.Warn("query throttled", zap.String("component", componentName))
		return types.AnalysisResult{
			Success: false,
			Error: fmt.Sprintf("query throttled, wait %d minutes between identical requests",
				int(window.Minutes())),
			ErrorType:  types.ErrThrottled,
			Throttled:  true,
			RetryAfter: int(window.Seconds()),
			Patents:    []types.PatentRecord{},
			QueryInfo:  query,
		}
	}

	// Record the attempt before calling upstream so failed probes also
	// throttle. Best effort, like every cache write.
	if err := s.cache.MarkAttempt(ctx, fp); err != nil {
		s.logger.Warn("attempt mark failed", zap.String("fingerprint", fp), zap.Error(err))
	}

	token, body, err := s.client.SubmitQuery(ctx, componentName, componentDescription, reference, 0)
	if err != nil {
		s.logger.Error("screening query failed",
			zap.String("component", componentName), zap.Error(err))
		return s.failure(query, err)
	}

	// Session path: one follow-up fetch when the submission response did
	// not already carry results.
	if token != "" && !hasInlineResults(body) {
		body, err = s.client.GetResults(ctx, token, true)
		if err != nil {
			s.logger.Error("results retrieval failed",
				zap.String("component", componentName), zap.Error(err))
			return s.failure(query, err)
		}
	}

	patents, err := normalizePatents(body)
	if err != nil {
		s.logger.Error("response normalization failed",
			zap.String("component", componentName), zap.Error(err))
		return s.failure(query, err)
	}

	result := types.AnalysisResult{
		Success:       true,
		Patents:       patents,
		PatentCount:   len(patents),
		ComponentName: componentName,
		QueryInfo:     query,
	}

	if err := s.cache.Put(ctx, fp, result); err != nil {
		// Caching is best effort; a write failure never fails the caller.
		s.logger.Warn("cache write failed", zap.String("fingerprint", fp), zap.Error(err))
	}

	s.logger.Info("analysis complete",
		zap.String("component", componentName), zap.Int("patents", len(patents)))
	return result
}

// failure folds an error into the uniform result shape. Typed APIErrors
// keep their kind; anything else is classified unexpected.
func (s *Service) failure(query types.QueryInfo, err error) types.AnalysisResult {
	result := types.AnalysisResult{
		Success:   false,
		Patents:   []types.PatentRecord{},
		QueryInfo: query,
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		result.Error = apiErr.Error()
		result.ErrorType = apiErr.Kind
		result.RetryAfter = apiErr.RetryAfter
		result.Throttled = apiErr.Kind == types.ErrThrottled
		return result
	}

	result.Error = fmt.Sprintf("unexpected error: %v", err)
	result.ErrorType = types.ErrUnexpected
	return result
}

// Status reports the service configuration for the status endpoint.
type Status struct {
	Configured      bool   `json:"configured" yaml:"configured"`
	CacheTTLHours   int    `json:"cache_ttl_hours" yaml:"cache_ttl_hours"`
	ThrottleMinutes int    `json:"throttle_minutes" yaml:"throttle_minutes"`
	DefaultRows     int    `json:"default_rows" yaml:"default_rows"`
	MaxRows         int    `json:"max_rows" yaml:"max_rows"`
	Mode            string `json:"mode" yaml:"mode"`
}

// Status returns the current service configuration summary.
func (s *Service) Status() Status {
	return Status{
		Configured:      s.cfg.DataKey != "",
		CacheTTLHours:   int(s.cacheCfg.TTL / time.Hour),
		ThrottleMinutes: int(s.cacheCfg.ThrottleWindow / time.Minute),
		DefaultRows:     s.cfg.DefaultRows,
		MaxRows:         s.cfg.MaxRows,
		Mode:            "live_api",
	}
}

// ClearCache removes all cached analyses. Administrative operation.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	s.logger.Info("screening cache cleared")
	return nil
}
